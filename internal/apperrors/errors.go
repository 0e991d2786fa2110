// Package apperrors defines the error classes shared by the API server and
// the client. The server maps them to HTTP statuses at the boundary; the
// client maps statuses back to the same sentinels so callers can test with
// errors.Is on either side.
package apperrors

import "errors"

var (
	// ErrValidation marks a request rejected before persistence because a
	// required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a write rejected because a unique field is taken.
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated covers every credential failure: missing header,
	// bad signature, malformed payload, expiry, or a token for a user that
	// no longer exists. Callers must not be able to tell these apart.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden marks an authenticated caller that is not the owner of
	// the resource being mutated.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a resource id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnexpected covers storage and other unclassified failures.
	ErrUnexpected = errors.New("unexpected error")
)
