package registry

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicate indicates an attempt to register an existing key.
	ErrDuplicate = errors.New("registry: duplicate registration")

	// ErrSealed indicates an attempt to register in a sealed registry.
	ErrSealed = errors.New("registry: sealed")
)

// Registry is a thread-safe registry for values indexed by key.
// It uses sync.RWMutex for read-heavy workloads.
type Registry[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	sealed  atomic.Bool
}

// New creates a new empty registry.
func New[K cmp.Ordered, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Register adds a value. It returns ErrDuplicate if key is already present
// and ErrSealed once Seal has been called.
func (r *Registry[K, V]) Register(key K, value V) error {
	if r.sealed.Load() {
		return ErrSealed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Seal may have won the race for mu.
	if r.sealed.Load() {
		return ErrSealed
	}
	if _, exists := r.entries[key]; exists {
		return ErrDuplicate
	}
	r.entries[key] = value
	return nil
}

// MustRegister panics on registration error. Useful from init() blocks.
func (r *Registry[K, V]) MustRegister(key K, value V) {
	if err := r.Register(key, value); err != nil {
		panic(err)
	}
}

// Seal prevents further registrations. It waits for in-flight Register
// calls, so no entry is added once Seal returns. It reports whether this
// call changed the registry from unsealed to sealed.
func (r *Registry[K, V]) Seal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.sealed.Swap(true)
}

// Sealed reports whether the registry is sealed.
func (r *Registry[K, V]) Sealed() bool { return r.sealed.Load() }

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns all keys in ascending order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
