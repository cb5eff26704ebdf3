/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keyspace

import "testing"

func TestPrimaryAndIndexKeys(t *testing.T) {
	if got := PrimaryKey("plan", "p1"); got != "plan/p1" {
		t.Errorf("PrimaryKey = %q", got)
	}
	if got := IndexName("plan", ""); got != "plan" {
		t.Errorf("IndexName global = %q", got)
	}
	if got := IndexName("plan", "acme"); got != "plan:acme" {
		t.Errorf("IndexName tenant = %q", got)
	}
	if got := IndexKey("plan", "acme"); got != "#idx#plan:acme" {
		t.Errorf("IndexKey = %q", got)
	}
}

func TestNamespacesNeverCollide(t *testing.T) {
	types := []string{"plan", "customer", "a", "x-y_z9"}
	ids := []string{"p1", "#idx#plan", ":acme", "a/b", "plan:acme"}
	partitions := []string{"", "acme", "a:b", "p1"}

	for _, typ := range types {
		if err := ValidateEntityType(typ); err != nil {
			t.Fatalf("ValidateEntityType(%q): %v", typ, err)
		}
		for _, id := range ids {
			pk := PrimaryKey(typ, id)
			if IsIndexKey(pk) {
				t.Errorf("primary key %q lands in the index namespace", pk)
			}
			for _, other := range types {
				for _, part := range partitions {
					if pk == IndexKey(other, part) {
						t.Errorf("primary key %q collides with index key", pk)
					}
				}
			}
		}
	}
}

func TestValidateEntityType(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"plan", false},
		{"chat_board", false},
		{"", true},
		{"Plan", true},
		{"#idx#plan", true},
		{"plan:acme", true},
		{"plan/x", true},
		{"9plan", true},
	}
	for _, tt := range tests {
		err := ValidateEntityType(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEntityType(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateID(t *testing.T) {
	if ValidateID("") == nil {
		t.Error("empty id should be rejected")
	}
	if err := ValidateID("3f1c"); err != nil {
		t.Errorf("ValidateID: %v", err)
	}
}

func TestParseIndexName(t *testing.T) {
	typ, part, err := ParseIndexName("plan:acme")
	if err != nil || typ != "plan" || part != "acme" {
		t.Errorf("ParseIndexName(plan:acme) = %q, %q, %v", typ, part, err)
	}

	typ, part, err = ParseIndexName("user")
	if err != nil || typ != "user" || part != "" {
		t.Errorf("ParseIndexName(user) = %q, %q, %v", typ, part, err)
	}

	typ, part, err = ParseIndexName("plan:a:b")
	if err != nil || typ != "plan" || part != "a:b" {
		t.Errorf("ParseIndexName(plan:a:b) = %q, %q, %v", typ, part, err)
	}

	if _, _, err := ParseIndexName("plan:"); err == nil {
		t.Error("empty partition should be rejected")
	}
	if _, _, err := ParseIndexName("Plan"); err == nil {
		t.Error("invalid type should be rejected")
	}
}
