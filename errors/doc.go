/*
Package errors provides semantic error types for the tenant store.

The package defines the error taxonomy shared by the store, its backends and
the HTTP layer. Every kind can be checked with the standard errors.Is()
function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound           = errors.New("entity not found")
	    ErrAlreadyExists      = errors.New("entity already exists")
	    ErrInvalidInput       = errors.New("invalid input")
	    ErrConditionFailed    = errors.New("condition check failed")
	    ErrDecode             = errors.New("stored record could not be decoded")
	    ErrBackendUnavailable = errors.New("backend unavailable")
	)

Usage:

	plan, err := plans.Get(ctx, "p1")
	if err != nil {
	    switch {
	    case errors.IsNotFound(err):
	        // 404
	    case errors.IsDecodeError(err):
	        // corrupted storage, never a missing record
	    case errors.IsBackendUnavailable(err):
	        // propagate; retry policy belongs to the caller
	    }
	}

DecodeError and BackendError wrap their cause, so errors.Is also matches the
underlying error.
*/
package errors
