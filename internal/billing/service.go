/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package billing implements the multi-tenant billing dashboard on top of the
// entity stores: tenant onboarding, customers, plans, subscriptions,
// invoices, dashboard metrics and the demo user and chat collections.
package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/suparena/tenantstore"
	"github.com/suparena/tenantstore/codec"
	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/index"
	models "github.com/suparena/tenantstore/storagemodels"
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// Codec is "json" (default) or "msgpack".
	Codec            string
	FetchConcurrency int
	Logger           *slog.Logger
	Now              func() time.Time
	NewID            func() string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Service owns one store per entity type, all sharing a backend and an
// index manager.
type Service struct {
	tenants       *tenantstore.Store[models.Tenant]
	customers     *tenantstore.TenantStore[models.Customer]
	plans         *tenantstore.TenantStore[models.Plan]
	subscriptions *tenantstore.TenantStore[models.Subscription]
	invoices      *tenantstore.TenantStore[models.Invoice]
	users         *tenantstore.Store[models.User]
	chats         *tenantstore.Store[models.ChatBoard]

	catalog    *tenantstore.Catalog
	log        *slog.Logger
	now        func() time.Time
	newID      func() string
	bcryptCost int
}

func codecFor[T any](name string) codec.Codec[T] {
	if name == "msgpack" {
		return codec.NewMsgpack[T]()
	}
	return codec.NewJSON[T]()
}

// New builds the service over backend. The caller keeps ownership of the
// backend and closes it.
func New(backend datastore.Backend, opts Options) (*Service, error) {
	s := &Service{
		log:        opts.Logger,
		now:        opts.Now,
		newID:      opts.NewID,
		bcryptCost: opts.BcryptCost,
		catalog:    tenantstore.NewCatalog(),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}

	storeOpts := []tenantstore.Option{
		tenantstore.WithIndexManager(index.NewManager(backend)),
		tenantstore.WithIntegrityHook(s.logIntegrity),
		tenantstore.WithFetchConcurrency(opts.FetchConcurrency),
		tenantstore.WithClock(s.now),
		tenantstore.WithIDGenerator(s.newID),
	}

	var err error
	if s.tenants, err = tenantstore.NewStore(backend, tenantstore.Descriptor[models.Tenant]{
		Type:  models.TypeTenant,
		Codec: codecFor[models.Tenant](opts.Codec),
	}, storeOpts...); err != nil {
		return nil, err
	}
	if s.customers, err = tenantstore.NewTenantStore(backend, tenantstore.Descriptor[models.Customer]{
		Type:  models.TypeCustomer,
		Codec: codecFor[models.Customer](opts.Codec),
	}, storeOpts...); err != nil {
		return nil, err
	}
	if s.plans, err = tenantstore.NewTenantStore(backend, tenantstore.Descriptor[models.Plan]{
		Type:  models.TypePlan,
		Codec: codecFor[models.Plan](opts.Codec),
	}, storeOpts...); err != nil {
		return nil, err
	}
	if s.subscriptions, err = tenantstore.NewTenantStore(backend, tenantstore.Descriptor[models.Subscription]{
		Type:  models.TypeSubscription,
		Codec: codecFor[models.Subscription](opts.Codec),
	}, storeOpts...); err != nil {
		return nil, err
	}
	if s.invoices, err = tenantstore.NewTenantStore(backend, tenantstore.Descriptor[models.Invoice]{
		Type:  models.TypeInvoice,
		Codec: codecFor[models.Invoice](opts.Codec),
	}, storeOpts...); err != nil {
		return nil, err
	}
	if s.users, err = tenantstore.NewStore(backend, tenantstore.Descriptor[models.User]{
		Type:  models.TypeUser,
		Codec: codecFor[models.User](opts.Codec),
		Seed:  models.SeedUsers(),
	}, storeOpts...); err != nil {
		return nil, err
	}
	if s.chats, err = tenantstore.NewStore(backend, tenantstore.Descriptor[models.ChatBoard]{
		Type:    models.TypeChat,
		Codec:   codecFor[models.ChatBoard](opts.Codec),
		Initial: models.ChatBoard{Messages: []models.ChatMessage{}},
		Seed:    models.SeedChatBoards(),
	}, storeOpts...); err != nil {
		return nil, err
	}

	for _, register := range []func() error{
		func() error { return tenantstore.RegisterStore(s.catalog, s.tenants) },
		func() error { return tenantstore.RegisterStore(s.catalog, s.customers.Store()) },
		func() error { return tenantstore.RegisterStore(s.catalog, s.plans.Store()) },
		func() error { return tenantstore.RegisterStore(s.catalog, s.subscriptions.Store()) },
		func() error { return tenantstore.RegisterStore(s.catalog, s.invoices.Store()) },
		func() error { return tenantstore.RegisterStore(s.catalog, s.users) },
		func() error { return tenantstore.RegisterStore(s.catalog, s.chats) },
	} {
		if err := register(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Catalog returns the registry of the service's stores.
func (s *Service) Catalog() *tenantstore.Catalog {
	return s.catalog
}

// Seed loads the demo users and chat boards if their indexes are empty.
func (s *Service) Seed(ctx context.Context) error {
	if err := s.users.EnsureSeed(ctx); err != nil {
		return err
	}
	return s.chats.EnsureSeed(ctx)
}

func (s *Service) logIntegrity(ev tenantstore.IntegrityEvent) {
	s.log.Warn("index integrity",
		"type", ev.Type,
		"index", ev.Index,
		"id", ev.ID,
		"reason", ev.Reason)
}
