/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/tenantstore"
)

// Entity-type names. Each owns one primary-key namespace.
const (
	TypeTenant       = "tenant"
	TypeCustomer     = "customer"
	TypePlan         = "plan"
	TypeSubscription = "subscription"
	TypeInvoice      = "invoice"
	TypeUser         = "user"
	TypeChat         = "chat"
)

// Tenant is an organization using the billing dashboard. Its id is the
// subdomain it is served from.
type Tenant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	OwnerEmail   string          `json:"ownerEmail"`
	PasswordHash string          `json:"passwordHash"`
	CreatedAt    strfmt.DateTime `json:"createdAt"`
}

func (t Tenant) EntityID() string { return t.ID }

// CustomerStatus is the lifecycle state of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerPending  CustomerStatus = "pending"
)

// Customer is a tenant's paying (or prospective) customer.
type Customer struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenantId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Status    CustomerStatus  `json:"status"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
}

func (c Customer) EntityID() string     { return c.ID }
func (c Customer) EntityTenant() string { return c.TenantID }

func (c Customer) WithIdentity(id tenantstore.Identity) Customer {
	c.ID, c.TenantID, c.CreatedAt = id.ID, id.TenantID, strfmt.DateTime(id.CreatedAt)
	return c
}

// BillingInterval is how often a plan is charged.
type BillingInterval string

const (
	Monthly BillingInterval = "month"
	Yearly  BillingInterval = "year"
)

// Plan is a priced offering. Price is in cents per Interval.
type Plan struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenantId"`
	Name      string          `json:"name"`
	Price     int64           `json:"price"`
	Interval  BillingInterval `json:"interval"`
	Features  []string        `json:"features"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
}

func (p Plan) EntityID() string     { return p.ID }
func (p Plan) EntityTenant() string { return p.TenantID }

func (p Plan) WithIdentity(id tenantstore.Identity) Plan {
	p.ID, p.TenantID, p.CreatedAt = id.ID, id.TenantID, strfmt.DateTime(id.CreatedAt)
	p.Features = append([]string(nil), p.Features...)
	return p
}

// MonthlyPrice returns the plan price normalized to one month, in cents.
func (p Plan) MonthlyPrice() int64 {
	if p.Interval == Yearly {
		return p.Price / 12
	}
	return p.Price
}

// PlanPatch is a partial plan update. Nil fields are left unchanged.
type PlanPatch struct {
	Name     *string          `json:"name,omitempty"`
	Price    *int64           `json:"price,omitempty"`
	Interval *BillingInterval `json:"interval,omitempty"`
	Features []string         `json:"features,omitempty"`
}

// Apply returns p with the patch applied.
func (pp PlanPatch) Apply(p Plan) Plan {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Interval != nil {
		p.Interval = *pp.Interval
	}
	if pp.Features != nil {
		p.Features = append([]string(nil), pp.Features...)
	}
	return p
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
)

// Subscription binds a customer to a plan. EndDate is nil while the
// subscription runs.
type Subscription struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenantId"`
	CustomerID string             `json:"customerId"`
	PlanID     string             `json:"planId"`
	Status     SubscriptionStatus `json:"status"`
	StartDate  strfmt.DateTime    `json:"startDate"`
	EndDate    *strfmt.DateTime   `json:"endDate"`
	CreatedAt  strfmt.DateTime    `json:"createdAt"`
}

func (s Subscription) EntityID() string     { return s.ID }
func (s Subscription) EntityTenant() string { return s.TenantID }

func (s Subscription) WithIdentity(id tenantstore.Identity) Subscription {
	s.ID, s.TenantID, s.CreatedAt = id.ID, id.TenantID, strfmt.DateTime(id.CreatedAt)
	if time.Time(s.StartDate).IsZero() {
		s.StartDate = strfmt.DateTime(id.CreatedAt)
	}
	return s
}

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePending InvoiceStatus = "pending"
	InvoiceFailed  InvoiceStatus = "failed"
)

// Invoice is an amount billed to a customer. CustomerName is copied from the
// customer when the invoice is issued.
type Invoice struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	CustomerID     string          `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	SubscriptionID string          `json:"subscriptionId"`
	Status         InvoiceStatus   `json:"status"`
	Amount         int64           `json:"amount"`
	IssueDate      strfmt.Date     `json:"issueDate"`
	DueDate        strfmt.Date     `json:"dueDate"`
	CreatedAt      strfmt.DateTime `json:"createdAt"`
}

func (i Invoice) EntityID() string     { return i.ID }
func (i Invoice) EntityTenant() string { return i.TenantID }

func (i Invoice) WithIdentity(id tenantstore.Identity) Invoice {
	i.ID, i.TenantID, i.CreatedAt = id.ID, id.TenantID, strfmt.DateTime(id.CreatedAt)
	if time.Time(i.IssueDate).IsZero() {
		i.IssueDate = strfmt.Date(id.CreatedAt)
	}
	return i
}

// User is a dashboard demo user.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (u User) EntityID() string { return u.ID }

// ChatMessage is one message on a chat board. TS is Unix milliseconds.
type ChatMessage struct {
	ID     string `json:"id"`
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// ChatBoard is a chat with its messages stored inline.
type ChatBoard struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

func (c ChatBoard) EntityID() string { return c.ID }

var (
	_ tenantstore.Entity                     = Tenant{}
	_ tenantstore.TenantEntity[Customer]     = Customer{}
	_ tenantstore.TenantEntity[Plan]         = Plan{}
	_ tenantstore.TenantEntity[Subscription] = Subscription{}
	_ tenantstore.TenantEntity[Invoice]      = Invoice{}
	_ tenantstore.Entity                     = User{}
	_ tenantstore.Entity                     = ChatBoard{}
)
