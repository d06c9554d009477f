package relation

import "errors"

// Failure kinds for the connection-request operations. Transport layers map
// these onto status codes with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed or self-referential input,
	// e.g. a user sending an interest to themselves.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUserNotFound is returned when an identifier does not resolve to a
	// user record.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoSuchRequest is returned when accepting a request that does not
	// exist in the caller's incoming set.
	ErrNoSuchRequest = errors.New("no such connection request")

	// ErrPartialWrite is returned when the first of the two record writes of
	// an edge operation succeeded and the second did not. Every mutation is
	// an idempotent set update, so retrying the whole operation is safe and
	// converges to a consistent state.
	ErrPartialWrite = errors.New("relationship update partially applied")
)
