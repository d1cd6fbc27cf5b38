package fantasy

import crerr "github.com/cockroachdb/errors"

var (
	// ErrTransport marks failures talking to the fantasy data provider,
	// including payloads that carry an embedded error object.
	ErrTransport = crerr.New("fantasy provider request failed")

	// ErrDependencyUnavailable is returned while the provider circuit is open.
	ErrDependencyUnavailable = crerr.New("fantasy provider temporarily unavailable")

	// ErrInvalidRequest marks caller mistakes that are rejected before any
	// remote call is made.
	ErrInvalidRequest = crerr.New("invalid request")

	// ErrNotFound is returned when a requested entity does not exist in the
	// fetched documents.
	ErrNotFound = crerr.New("entity not found")
)
