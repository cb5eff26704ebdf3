/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"strings"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/tenantstore"
	"github.com/suparena/tenantstore/codec"
	"github.com/suparena/tenantstore/errors"
	"github.com/suparena/tenantstore/keyspace"
)

func TestEntityTypeNames(t *testing.T) {
	for _, typ := range []string{TypeTenant, TypeCustomer, TypePlan, TypeSubscription, TypeInvoice, TypeUser, TypeChat} {
		if err := keyspace.ValidateEntityType(typ); err != nil {
			t.Errorf("%q: %v", typ, err)
		}
	}
}

func TestCustomerValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Customer
		wantErr bool
	}{
		{"valid", Customer{Name: "Acme Corp", Email: "billing@acme.test", Status: CustomerActive}, false},
		{"short name", Customer{Name: "A", Email: "billing@acme.test", Status: CustomerActive}, true},
		{"bad email", Customer{Name: "Acme Corp", Email: "not-an-email", Status: CustomerActive}, true},
		{"unknown status", Customer{Name: "Acme Corp", Email: "billing@acme.test", Status: "vip"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsValidationError(err) {
				t.Fatalf("Validate() = %v, want a validation error", err)
			}
		})
	}
}

func TestPlanValidate(t *testing.T) {
	valid := Plan{Name: "Pro", Price: 9900, Interval: Monthly, Features: []string{"API access"}}

	tests := []struct {
		name    string
		mutate  func(*Plan)
		wantErr string
	}{
		{"valid", func(*Plan) {}, ""},
		{"zero price", func(p *Plan) { p.Price = 0 }, ""},
		{"negative price", func(p *Plan) { p.Price = -1 }, "price"},
		{"bad interval", func(p *Plan) { p.Interval = "week" }, "interval"},
		{"no features", func(p *Plan) { p.Features = nil }, "features"},
		{"short feature", func(p *Plan) { p.Features = []string{"ok"} }, "features"},
		{"short name", func(p *Plan) { p.Name = " P " }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error about %q", err, tt.wantErr)
			}
		})
	}
}

func TestPlanPatchApply(t *testing.T) {
	p := Plan{ID: "p1", TenantID: "acme", Name: "Pro", Price: 9900, Interval: Monthly, Features: []string{"x"}}

	price := int64(12900)
	yearly := Yearly
	got := PlanPatch{Price: &price, Interval: &yearly}.Apply(p)

	if got.Price != 12900 || got.Interval != Yearly {
		t.Fatalf("patched = %+v", got)
	}
	if got.ID != "p1" || got.TenantID != "acme" || got.Name != "Pro" || len(got.Features) != 1 {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
	if p.Price != 9900 {
		t.Fatal("Apply modified its argument")
	}
}

func TestMonthlyPrice(t *testing.T) {
	if got := (Plan{Price: 12000, Interval: Yearly}).MonthlyPrice(); got != 1000 {
		t.Errorf("yearly = %d", got)
	}
	if got := (Plan{Price: 4900, Interval: Monthly}).MonthlyPrice(); got != 4900 {
		t.Errorf("monthly = %d", got)
	}
}

func TestWithIdentity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := tenantstore.Identity{ID: "id-1", TenantID: "acme", CreatedAt: now}

	sub := Subscription{CustomerID: "c1", PlanID: "p1", Status: SubscriptionActive}.WithIdentity(id)
	if sub.ID != "id-1" || sub.TenantID != "acme" {
		t.Fatalf("identity = %+v", sub)
	}
	if !time.Time(sub.StartDate).Equal(now) {
		t.Errorf("StartDate = %v, want creation time", sub.StartDate)
	}

	inv := Invoice{CustomerID: "c1", Amount: 4900, Status: InvoicePending}.WithIdentity(id)
	if time.Time(inv.IssueDate).Format("2006-01-02") != "2025-06-01" {
		t.Errorf("IssueDate = %v", inv.IssueDate)
	}
}

func TestJSONRecordRoundTrip(t *testing.T) {
	c := codec.NewJSON[Subscription]()
	start := strfmt.DateTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	sub := Subscription{
		ID: "s1", TenantID: "acme", CustomerID: "c1", PlanID: "p1",
		Status: SubscriptionActive, StartDate: start, CreatedAt: start,
	}

	raw, err := c.Encode(sub)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"endDate":null`) {
		t.Errorf("running subscription should encode endDate as null: %s", raw)
	}

	got, err := c.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != sub.ID || got.EndDate != nil || !time.Time(got.StartDate).Equal(time.Time(start)) {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestSeeds(t *testing.T) {
	if n := len(SeedUsers()); n != 4 {
		t.Errorf("SeedUsers() has %d users", n)
	}
	for _, b := range SeedChatBoards() {
		for _, m := range b.Messages {
			if m.ChatID != b.ID {
				t.Errorf("message %s belongs to %s, seeded on %s", m.ID, m.ChatID, b.ID)
			}
		}
	}
}
