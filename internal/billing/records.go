/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package billing

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/tenantstore/errors"
	models "github.com/suparena/tenantstore/storagemodels"
)

const invoiceTerm = 14 * 24 * time.Hour

// Customers

func (s *Service) CreateCustomer(ctx context.Context, tenantID string, c models.Customer) (models.Customer, error) {
	if c.Status == "" {
		c.Status = models.CustomerActive
	}
	if err := c.Validate(); err != nil {
		return models.Customer{}, err
	}
	return s.customers.CreateForTenant(ctx, tenantID, c)
}

func (s *Service) ListCustomers(ctx context.Context, tenantID string) ([]models.Customer, error) {
	return s.customers.ListForTenant(ctx, tenantID)
}

// DeleteCustomer reports whether the tenant had a customer with id.
func (s *Service) DeleteCustomer(ctx context.Context, tenantID, id string) (bool, error) {
	return s.customers.DeleteForTenant(ctx, tenantID, id)
}

// Plans

func (s *Service) CreatePlan(ctx context.Context, tenantID string, p models.Plan) (models.Plan, error) {
	if err := p.Validate(); err != nil {
		return models.Plan{}, err
	}
	return s.plans.CreateForTenant(ctx, tenantID, p)
}

func (s *Service) ListPlans(ctx context.Context, tenantID string) ([]models.Plan, error) {
	return s.plans.ListForTenant(ctx, tenantID)
}

// UpdatePlan applies patch to the tenant's plan. The patched plan must still
// be valid.
func (s *Service) UpdatePlan(ctx context.Context, tenantID, id string, patch models.PlanPatch) (models.Plan, error) {
	return s.plans.UpdateForTenant(ctx, tenantID, id, func(p models.Plan) (models.Plan, error) {
		next := patch.Apply(p)
		if err := next.Validate(); err != nil {
			return models.Plan{}, err
		}
		return next, nil
	})
}

func (s *Service) DeletePlan(ctx context.Context, tenantID, id string) (bool, error) {
	return s.plans.DeleteForTenant(ctx, tenantID, id)
}

// Subscriptions

// CreateSubscription subscribes one of the tenant's customers to one of its
// plans.
func (s *Service) CreateSubscription(ctx context.Context, tenantID string, sub models.Subscription) (models.Subscription, error) {
	if sub.Status == "" {
		sub.Status = models.SubscriptionActive
	}
	sub.EndDate = nil
	if err := sub.Validate(); err != nil {
		return models.Subscription{}, err
	}
	if _, err := s.referencedCustomer(ctx, tenantID, sub.CustomerID); err != nil {
		return models.Subscription{}, err
	}
	if _, err := s.plans.GetForTenant(ctx, tenantID, sub.PlanID); err != nil {
		if errors.IsNotFound(err) {
			return models.Subscription{}, errors.NewValidationError("planId", "unknown plan")
		}
		return models.Subscription{}, err
	}
	return s.subscriptions.CreateForTenant(ctx, tenantID, sub)
}

func (s *Service) ListSubscriptions(ctx context.Context, tenantID string) ([]models.Subscription, error) {
	return s.subscriptions.ListForTenant(ctx, tenantID)
}

// CancelSubscription ends the subscription now. Canceling twice keeps the
// first end date.
func (s *Service) CancelSubscription(ctx context.Context, tenantID, id string) (models.Subscription, error) {
	return s.subscriptions.UpdateForTenant(ctx, tenantID, id, func(sub models.Subscription) (models.Subscription, error) {
		if sub.Status == models.SubscriptionCanceled {
			return sub, nil
		}
		end := strfmt.DateTime(s.now().UTC().Truncate(time.Millisecond))
		sub.Status = models.SubscriptionCanceled
		sub.EndDate = &end
		return sub, nil
	})
}

// Invoices

// CreateInvoice bills one of the tenant's customers. The customer's current
// name is copied onto the invoice. Status defaults to pending, the issue date
// to today and the due date to two weeks after issue.
func (s *Service) CreateInvoice(ctx context.Context, tenantID string, inv models.Invoice) (models.Invoice, error) {
	if inv.Status == "" {
		inv.Status = models.InvoicePending
	}
	if err := inv.Validate(); err != nil {
		return models.Invoice{}, err
	}
	customer, err := s.referencedCustomer(ctx, tenantID, inv.CustomerID)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.CustomerName = customer.Name
	if time.Time(inv.IssueDate).IsZero() {
		inv.IssueDate = strfmt.Date(s.now().UTC().Truncate(24 * time.Hour))
	}
	if time.Time(inv.DueDate).IsZero() {
		inv.DueDate = strfmt.Date(time.Time(inv.IssueDate).Add(invoiceTerm))
	}
	return s.invoices.CreateForTenant(ctx, tenantID, inv)
}

func (s *Service) ListInvoices(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	return s.invoices.ListForTenant(ctx, tenantID)
}

func (s *Service) UpdateInvoiceStatus(ctx context.Context, tenantID, id string, status models.InvoiceStatus) (models.Invoice, error) {
	if err := models.ValidateInvoiceStatus(status); err != nil {
		return models.Invoice{}, err
	}
	return s.invoices.UpdateForTenant(ctx, tenantID, id, func(inv models.Invoice) (models.Invoice, error) {
		inv.Status = status
		return inv, nil
	})
}

func (s *Service) referencedCustomer(ctx context.Context, tenantID, id string) (models.Customer, error) {
	c, err := s.customers.GetForTenant(ctx, tenantID, id)
	if errors.IsNotFound(err) {
		return models.Customer{}, errors.NewValidationError("customerId", "unknown customer")
	}
	return c, err
}
