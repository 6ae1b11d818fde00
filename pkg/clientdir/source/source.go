// Package source loads client registrations for a clientdir.Directory.
//
// A Source is the external collaborator that produces already-validated
// registration records. The directory only checks cross-record rules
// (non-empty set, unique aliases); sources check each record with
// ClientRegistration.Validate.
package source

import (
	"context"
	"errors"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
)

// Source produces the full registration set on each call.
// Implementations must be safe for concurrent use.
type Source interface {
	// Load returns every registration in the source, in order.
	// An empty result is returned as-is; rejecting it is the directory's job.
	Load(ctx context.Context) ([]clientdir.ClientRegistration, error)
}

// Watchable is implemented by sources backed by local files.
// WatchPaths lists the files whose changes should trigger a reload.
type Watchable interface {
	WatchPaths() []string
}

// Sentinel errors for source operations.
var (
	// ErrSourceClosed indicates the source has been closed.
	ErrSourceClosed = errors.New("registration source closed")

	// ErrMalformed indicates the document does not have the expected shape.
	ErrMalformed = errors.New("malformed registration document")
)

// Func adapts a function to the Source interface.
type Func func(ctx context.Context) ([]clientdir.ClientRegistration, error)

// Load implements Source.
func (f Func) Load(ctx context.Context) ([]clientdir.ClientRegistration, error) {
	return f(ctx)
}

// Static is a Source that always returns the same registrations.
type Static []clientdir.ClientRegistration

// Load implements Source. It returns a deep copy.
func (s Static) Load(ctx context.Context) ([]clientdir.ClientRegistration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]clientdir.ClientRegistration, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out, nil
}

// Compile-time interface checks.
var (
	_ Source = Func(nil)
	_ Source = Static(nil)
)
