/*
Package storagemodels defines the billing domain records persisted by the
tenant store.

Global types:

	Tenant     id is the tenant's subdomain, indexed under "tenant"
	User       seeded demo users, indexed under "user"
	ChatBoard  seeded demo chats with inline messages, indexed under "chat"

Tenant-scoped types, indexed under "<type>:<tenantId>":

	Customer, Plan, Subscription, Invoice

Tenant-scoped types carry their TenantID and implement
tenantstore.TenantEntity, so ids, tenant ids and creation times are stamped
by the store:

	plan, err := plans.CreateForTenant(ctx, "acme", storagemodels.Plan{
	    Name:     "Pro",
	    Price:    9900,
	    Interval: storagemodels.Monthly,
	    Features: []string{"Unlimited invoices"},
	})

Timestamps use strfmt.DateTime (RFC 3339 with milliseconds) and calendar
dates use strfmt.Date. Money amounts are integer cents.
*/
package storagemodels
