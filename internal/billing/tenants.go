/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package billing

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"golang.org/x/crypto/bcrypt"

	"github.com/suparena/tenantstore/errors"
	models "github.com/suparena/tenantstore/storagemodels"
)

const minPasswordLength = 8

// Registration is the onboarding request of a new organization.
type Registration struct {
	OrganizationName string `json:"organizationName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Subdomain        string `json:"subdomain"`
}

func (r Registration) validate() error {
	if strings.TrimSpace(r.OrganizationName) == "" {
		return errors.NewValidationError("organizationName", "is required")
	}
	if err := models.ValidateEmail("email", r.Email); err != nil {
		return err
	}
	if len(r.Password) < minPasswordLength {
		return errors.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	return models.ValidateSubdomain(r.Subdomain)
}

// RegisterTenant creates a tenant whose id is the requested subdomain.
func (s *Service) RegisterTenant(ctx context.Context, r Registration) (models.Tenant, error) {
	if err := r.validate(); err != nil {
		return models.Tenant{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.bcryptCost)
	if err != nil {
		return models.Tenant{}, fmt.Errorf("hash password: %w", err)
	}

	t, err := s.tenants.Create(ctx, "", models.Tenant{
		ID:           r.Subdomain,
		Name:         r.OrganizationName,
		OwnerEmail:   r.Email,
		PasswordHash: string(hash),
		CreatedAt:    strfmt.DateTime(s.now().UTC().Truncate(time.Millisecond)),
	})
	if errors.IsAlreadyExists(err) {
		return models.Tenant{}, fmt.Errorf("subdomain is already taken: %w", err)
	}
	if err != nil {
		return models.Tenant{}, err
	}
	s.log.Info("tenant registered", "tenant", t.ID)
	return t, nil
}

// Login checks the owner credentials of the tenant served at subdomain.
func (s *Service) Login(ctx context.Context, subdomain, email, password string) (models.Tenant, error) {
	if subdomain == "" {
		return models.Tenant{}, errors.NewValidationError("tenantId", "login must be done from your subdomain")
	}
	if email == "" || password == "" {
		return models.Tenant{}, errors.NewValidationError("", "email and password are required")
	}
	t, err := s.tenants.Get(ctx, subdomain)
	if err != nil {
		return models.Tenant{}, err
	}
	if !strings.EqualFold(t.OwnerEmail, email) {
		return models.Tenant{}, errInvalidCredentials
	}
	err = bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password))
	if stderrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return models.Tenant{}, errInvalidCredentials
	}
	if err != nil {
		return models.Tenant{}, fmt.Errorf("compare password: %w", err)
	}
	return t, nil
}

// Tenant returns the tenant with id.
func (s *Service) Tenant(ctx context.Context, id string) (models.Tenant, error) {
	return s.tenants.Get(ctx, id)
}

var errInvalidCredentials = errors.NewValidationError("", "invalid credentials")
