/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/datastore/mock"
	"github.com/suparena/tenantstore/errors"
)

func TestMockDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		store := mock.New()

		if err := store.Put(ctx, "plan/p1", []byte("one")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := store.Get(ctx, "plan/p1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "one" {
			t.Fatalf("Get = %q, want %q", got, "one")
		}

		// Returned slices must not alias stored bytes.
		got[0] = 'X'
		again, _ := store.Get(ctx, "plan/p1")
		if string(again) != "one" {
			t.Fatalf("stored value mutated through returned slice: %q", again)
		}

		if err := store.Delete(ctx, "plan/p1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, "plan/p1"); !errors.IsNotFound(err) {
			t.Fatalf("Expected not found error, got: %v", err)
		}

		if err := store.Delete(ctx, "plan/p1"); err != nil {
			t.Fatalf("Delete of absent key should not fail: %v", err)
		}
	})

	t.Run("PutIfAbsent", func(t *testing.T) {
		store := mock.New()

		ok, err := store.PutIfAbsent(ctx, "k", []byte("first"))
		if err != nil || !ok {
			t.Fatalf("first PutIfAbsent = %v, %v", ok, err)
		}
		ok, err = store.PutIfAbsent(ctx, "k", []byte("second"))
		if err != nil || ok {
			t.Fatalf("second PutIfAbsent = %v, %v", ok, err)
		}
		v, _ := store.Raw("k")
		if string(v) != "first" {
			t.Fatalf("value = %q, want first", v)
		}
	})

	t.Run("ConcurrentPutIfAbsent", func(t *testing.T) {
		store := mock.New()
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := store.PutIfAbsent(ctx, "k", []byte("v"))
				if err != nil {
					t.Error(err)
				}
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if wins != 1 {
			t.Fatalf("wins = %d, want 1", wins)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		store := mock.New()

		putErr := errors.NewConditionFailedError("put", "simulated")
		store.WithPutError(putErr)
		if err := store.Put(ctx, "k", nil); err != putErr {
			t.Fatalf("Expected put error, got: %v", err)
		}
		if _, err := store.PutIfAbsent(ctx, "k", nil); err != putErr {
			t.Fatalf("Expected put error from PutIfAbsent, got: %v", err)
		}

		getErr := errors.NewBackendError("get", "k", context.DeadlineExceeded)
		store.WithGetError(getErr)
		if _, err := store.Get(ctx, "k"); err != getErr {
			t.Fatalf("Expected get error, got: %v", err)
		}

		deleteErr := errors.NewBackendError("delete", "k", context.Canceled)
		store.WithDeleteError(deleteErr)
		if err := store.Delete(ctx, "k"); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}
	})

	t.Run("Unconditional", func(t *testing.T) {
		store := mock.New()
		view := store.Unconditional()
		if _, ok := view.(datastore.ConditionalPutter); ok {
			t.Fatal("Unconditional view must not expose PutIfAbsent")
		}
		if err := view.Put(ctx, "k", []byte("v")); err != nil {
			t.Fatal(err)
		}
		if store.Count() != 1 {
			t.Fatalf("Count = %d, want 1", store.Count())
		}
	})

	t.Run("HelperMethods", func(t *testing.T) {
		store := mock.New()
		store.SetRaw("plan/b", []byte("b"))
		store.SetRaw("plan/a", []byte("a"))
		store.SetRaw("#idx#plan", []byte("[]"))

		keys := store.Keys("plan/")
		if len(keys) != 2 || keys[0] != "plan/a" || keys[1] != "plan/b" {
			t.Fatalf("Keys = %v", keys)
		}

		_, _ = store.Get(ctx, "plan/a")
		_, _ = store.Get(ctx, "plan/b")
		if store.Calls("get") != 2 {
			t.Fatalf("Calls(get) = %d, want 2", store.Calls("get"))
		}

		store.Clear()
		if store.Count() != 0 {
			t.Fatalf("Count after Clear = %d", store.Count())
		}
	})
}
