package clientdir

import (
	"sync"
	"sync/atomic"
)

// Repository resolves client registrations.
// Implementations must be safe for concurrent use.
type Repository interface {
	// ByClientID returns all registrations sharing clientID.
	// Returns an empty slice (not an error) if none match.
	ByClientID(clientID string) ([]ClientRegistration, error)

	// ByAlias returns the registration for alias, with ok == false if absent.
	ByAlias(alias string) (reg ClientRegistration, ok bool, err error)

	// All returns every registration in insertion order.
	All() []ClientRegistration
}

// Directory is the single source of truth for trusted client registrations.
//
// Reads load the current snapshot atomically and never block. Reload builds a
// replacement off to the side and swaps it in, so every read observes either
// the old set or the new set in full.
//
// The zero value is ready to use and holds no registrations until the first
// successful Reload.
type Directory struct {
	current atomic.Pointer[Snapshot]

	// swapMu serializes generation assignment and the pointer store.
	// Readers never take it.
	swapMu     sync.Mutex
	generation uint64
}

// Compile-time interface check.
var _ Repository = (*Directory)(nil)

// New builds a directory from initial. It fails with a *ValidationError if
// initial is empty or contains a duplicate alias.
func New(initial []ClientRegistration) (*Directory, error) {
	d := &Directory{}
	if err := d.Reload(initial); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload atomically replaces the registration set with next.
//
// next is validated before any shared state is touched. On error the
// directory keeps serving its current snapshot.
func (d *Directory) Reload(next []ClientRegistration) error {
	_, err := d.Install(next)
	return err
}

// Install is Reload returning the snapshot it put in service.
func (d *Directory) Install(next []ClientRegistration) (*Snapshot, error) {
	snap, err := buildSnapshot(next)
	if err != nil {
		return nil, err
	}

	d.swapMu.Lock()
	d.generation++
	snap.generation = d.generation
	d.current.Store(snap)
	d.swapMu.Unlock()
	return snap, nil
}

// Snapshot returns the current snapshot, or nil if none has been installed.
func (d *Directory) Snapshot() *Snapshot {
	return d.current.Load()
}

// ByClientID returns every registration with the given client id.
func (d *Directory) ByClientID(clientID string) ([]ClientRegistration, error) {
	return d.current.Load().ByClientID(clientID)
}

// ByAlias returns the registration for alias, if any.
func (d *Directory) ByAlias(alias string) (ClientRegistration, bool, error) {
	return d.current.Load().ByAlias(alias)
}

// All returns a copy of the current registrations in insertion order.
func (d *Directory) All() []ClientRegistration {
	return d.current.Load().All()
}

// Len returns the number of registrations in the current snapshot.
func (d *Directory) Len() int {
	return d.current.Load().Len()
}

// Generation returns the generation of the current snapshot, or 0 if none.
func (d *Directory) Generation() uint64 {
	return d.current.Load().Generation()
}
