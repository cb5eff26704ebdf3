/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/tenantstore/errors"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateSubdomain checks that s can be used as a tenant id.
func ValidateSubdomain(s string) error {
	if !subdomainPattern.MatchString(s) {
		return errors.NewValidationError("subdomain", "must be lowercase letters, digits and dashes")
	}
	return nil
}

// ValidateEmail checks that s is a well-formed email address.
func ValidateEmail(field, s string) error {
	if !strfmt.IsEmail(s) {
		return errors.NewValidationError(field, "invalid email address")
	}
	return nil
}

func minLength(field, s string, n int) error {
	if utf8.RuneCountInString(strings.TrimSpace(s)) < n {
		return errors.NewValidationError(field, fmt.Sprintf("must be at least %d characters", n))
	}
	return nil
}

// Validate checks the user-supplied fields of a customer.
func (c Customer) Validate() error {
	if err := minLength("name", c.Name, 2); err != nil {
		return err
	}
	if err := ValidateEmail("email", c.Email); err != nil {
		return err
	}
	switch c.Status {
	case CustomerActive, CustomerInactive, CustomerPending:
		return nil
	}
	return errors.NewValidationError("status", fmt.Sprintf("unknown customer status %q", c.Status))
}

// Validate checks the user-supplied fields of a plan.
func (p Plan) Validate() error {
	if err := minLength("name", p.Name, 2); err != nil {
		return err
	}
	if p.Price < 0 {
		return errors.NewValidationError("price", "must not be negative")
	}
	if p.Interval != Monthly && p.Interval != Yearly {
		return errors.NewValidationError("interval", fmt.Sprintf("unknown interval %q", p.Interval))
	}
	if len(p.Features) == 0 {
		return errors.NewValidationError("features", "at least one feature is required")
	}
	for _, f := range p.Features {
		if err := minLength("features", f, 3); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the references and status of a subscription.
func (s Subscription) Validate() error {
	if s.CustomerID == "" {
		return errors.NewValidationError("customerId", "is required")
	}
	if s.PlanID == "" {
		return errors.NewValidationError("planId", "is required")
	}
	switch s.Status {
	case SubscriptionActive, SubscriptionCanceled, SubscriptionPastDue:
		return nil
	}
	return errors.NewValidationError("status", fmt.Sprintf("unknown subscription status %q", s.Status))
}

// Validate checks the user-supplied fields of an invoice.
func (i Invoice) Validate() error {
	if i.CustomerID == "" {
		return errors.NewValidationError("customerId", "is required")
	}
	if i.Amount < 0 {
		return errors.NewValidationError("amount", "must not be negative")
	}
	return ValidateInvoiceStatus(i.Status)
}

// ValidateInvoiceStatus checks that s is a known invoice status.
func ValidateInvoiceStatus(s InvoiceStatus) error {
	switch s {
	case InvoicePaid, InvoicePending, InvoiceFailed:
		return nil
	}
	return errors.NewValidationError("status", fmt.Sprintf("unknown invoice status %q", s))
}
