/*
Package tenantstore provides a generic, typed entity store with named indexes
on top of any raw key-value backend, and a tenant-scoped facade that partitions
each entity type's indexes by tenant.

An entity type is described once and instantiated as a Store:

	plans, err := tenantstore.NewTenantStore(backend, tenantstore.Descriptor[storagemodels.Plan]{
	    Type: "plan",
	})

	plan, err := plans.CreateForTenant(ctx, "acme", storagemodels.Plan{Name: "Pro", Price: 9900})
	list, err := plans.ListForTenant(ctx, "acme")

Key Features:
  - Type-safe operations using Go generics
  - Disjoint key namespaces for records ("plan/<id>") and indexes ("#idx#plan:acme")
  - Atomic create through the backend's conditional put where available
  - Race-tolerant, idempotent seeding of global indexes
  - Structural tenant isolation with ownership checks on every lookup by id
  - Semantic error types (see package errors)
  - Backends for BadgerDB, Redis, SQLite, DynamoDB, S3 and Cassandra

Consistency:
Each backend call is atomic for one key only. Create writes the record, then
the index; Delete removes the record, then the index entry. A failure between
the two steps leaves either an index entry without a record, which List skips
and reports through WithIntegrityHook, or a record without an index entry,
which is unreachable through listing. Update and Mutate are last-write-wins.
*/
package tenantstore
