/*
Package ddb provides a DynamoDB implementation of the datastore.Backend
interface.

The table uses the single-object key pattern: PK and SK are both set to the
backend key, and the value is stored as the binary attribute Body.

	PK               SK               Body
	plan/p1          plan/p1          {"id":"p1",...}
	#idx#plan:acme   #idx#plan:acme   ["p1","p2"]

Conditional creates use PutItem with attribute_not_exists(PK); a
ConditionalCheckFailedException is reported as "not written" rather than as
an error. Reads are strongly consistent.

Credentials are static, as loaded from the environment:

	store, err := ddb.NewDynamodbDataStore(ctx,
	    os.Getenv("AWS_ACCESS_KEY"), os.Getenv("AWS_SECRET_KEY"),
	    os.Getenv("AWS_REGION"), os.Getenv("AWS_DDB_TABLE"))

Tests can substitute any Client implementation through New.
*/
package ddb
