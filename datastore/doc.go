/*
Package datastore defines the raw key-value contract the tenant store persists through.

The main interface is Backend, a minimal get/put/delete store over opaque keys:

	type Backend interface {
	    Get(ctx context.Context, key string) ([]byte, error)
	    Put(ctx context.Context, key string, value []byte) error
	    Delete(ctx context.Context, key string) error
	    Close() error
	}

Backends that offer an atomic create-if-absent also implement ConditionalPutter;
the entity store uses it to make create a true compare-and-set.

Implementations:
  - mock: In-memory backend with error injection for testing
  - badgerkv: Embedded BadgerDB
  - rediskv: Redis
  - sqlitekv: SQLite
  - ddb: DynamoDB single-table item store
  - s3kv: S3 or any S3-compatible object store
  - cassandrakv: Cassandra with lightweight transactions
  - metered: Prometheus instrumentation wrapping any of the above
*/
package datastore
