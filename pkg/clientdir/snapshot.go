package clientdir

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable, indexed registration set.
//
// A nil *Snapshot is the "no registrations" state: lookups return nothing and
// Len reports 0. Snapshots are safe for concurrent use.
type Snapshot struct {
	id         uuid.UUID
	generation uint64
	loadedAt   time.Time

	regs       []ClientRegistration
	byAlias    map[string]int
	byClientID map[string][]int
}

// Compile-time interface check.
var _ Repository = (*Snapshot)(nil)

// buildSnapshot validates regs and indexes them into a new snapshot.
// regs is copied; the caller keeps ownership of its slice.
func buildSnapshot(regs []ClientRegistration) (*Snapshot, error) {
	if len(regs) == 0 {
		return nil, &ValidationError{Err: ErrEmptyRegistrations}
	}

	byAlias := make(map[string]int, len(regs))
	byClientID := make(map[string][]int)
	for i := range regs {
		alias := regs[i].ClientAlias
		if first, exists := byAlias[alias]; exists {
			return nil, &ValidationError{
				Alias:      alias,
				Index:      i,
				FirstIndex: first,
				Err:        ErrDuplicateAlias,
			}
		}
		byAlias[alias] = i
		byClientID[regs[i].ClientID] = append(byClientID[regs[i].ClientID], i)
	}

	return &Snapshot{
		id:         uuid.New(),
		loadedAt:   time.Now(),
		regs:       cloneAll(regs),
		byAlias:    byAlias,
		byClientID: byClientID,
	}, nil
}

// ID returns the random identifier assigned when the snapshot was built.
func (s *Snapshot) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// Generation returns the snapshot's position in its directory's history.
// The first installed snapshot is generation 1.
func (s *Snapshot) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.generation
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// Len returns the number of registrations.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.regs)
}

// ByClientID returns every registration with the given client id, in
// insertion order. The result is empty, not nil, when nothing matches.
func (s *Snapshot) ByClientID(clientID string) ([]ClientRegistration, error) {
	if isBlank(clientID) {
		return nil, invalidArgument("clientID")
	}
	if s == nil {
		return []ClientRegistration{}, nil
	}
	idx := s.byClientID[clientID]
	out := make([]ClientRegistration, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.regs[i].Clone())
	}
	return out, nil
}

// ByAlias returns the registration for alias. ok is false when no
// registration has that alias.
func (s *Snapshot) ByAlias(alias string) (reg ClientRegistration, ok bool, err error) {
	if isBlank(alias) {
		return ClientRegistration{}, false, invalidArgument("clientAlias")
	}
	if s == nil {
		return ClientRegistration{}, false, nil
	}
	i, ok := s.byAlias[alias]
	if !ok {
		return ClientRegistration{}, false, nil
	}
	return s.regs[i].Clone(), true, nil
}

// All returns a copy of every registration in insertion order.
func (s *Snapshot) All() []ClientRegistration {
	if s == nil {
		return []ClientRegistration{}
	}
	return cloneAll(s.regs)
}

// Range calls fn for each registration in insertion order until fn returns
// false. fn receives a copy.
func (s *Snapshot) Range(fn func(ClientRegistration) bool) {
	if s == nil {
		return
	}
	for i := range s.regs {
		if !fn(s.regs[i].Clone()) {
			return
		}
	}
}

// Aliases returns the aliases in insertion order.
func (s *Snapshot) Aliases() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.regs))
	for i := range s.regs {
		out[i] = s.regs[i].ClientAlias
	}
	return out
}
