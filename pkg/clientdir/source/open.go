package source

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/randalmurphal/clientdir/pkg/clientdir/registry"
)

// Opener builds a Source from a parsed URI.
type Opener func(u *url.URL) (Source, error)

// ErrUnknownScheme indicates Open was given a URI with no registered opener.
var ErrUnknownScheme = errors.New("unknown source scheme")

// Resolver maps URI schemes to Openers. The first Open seals the scheme set,
// so every source opened by one process is built by the same openers.
type Resolver struct {
	openers *registry.Registry[string, Opener]
}

// NewResolver returns a Resolver that knows the "file" and "sqlite" schemes.
func NewResolver() *Resolver {
	r := &Resolver{openers: registry.New[string, Opener]()}
	r.openers.MustRegister("file", func(u *url.URL) (Source, error) {
		return NewFile(uriPath(u)), nil
	})
	r.openers.MustRegister("sqlite", func(u *url.URL) (Source, error) {
		s, err := NewSQLite(uriPath(u))
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	return r
}

// Register adds an Opener for scheme. It fails with registry.ErrDuplicate
// for known schemes and registry.ErrSealed once Open has been called.
func (r *Resolver) Register(scheme string, open Opener) error {
	if scheme == "" || open == nil {
		return errors.New("source: invalid scheme or opener")
	}
	return r.openers.Register(scheme, open)
}

// Schemes returns the registered URI schemes in sorted order.
func (r *Resolver) Schemes() []string {
	return r.openers.Keys()
}

// Open builds a Source from a URI such as
//
//	file:///etc/clientdir/registrations.yaml
//	sqlite:///var/lib/clientdir/registrations.db
//
// A URI without a scheme is treated as a file path.
func (r *Resolver) Open(uri string) (Source, error) {
	r.openers.Seal()

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse source uri: %w", err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "file"
	}
	open, ok := r.openers.Get(scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownScheme, scheme, r.openers.Keys())
	}
	return open(u)
}

var defaultResolver = NewResolver()

// RegisterScheme adds an Opener to the default resolver.
func RegisterScheme(scheme string, open Opener) error {
	return defaultResolver.Register(scheme, open)
}

// Open builds a Source with the default resolver.
func Open(uri string) (Source, error) {
	return defaultResolver.Open(uri)
}

// uriPath returns the filesystem path of u, accepting both
// "file:///abs/path" and the opaque "file:rel/path" forms.
func uriPath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	if u.Host != "" {
		// "file://relative/path" parses "relative" as the host.
		return u.Host + u.Path
	}
	return u.Path
}
