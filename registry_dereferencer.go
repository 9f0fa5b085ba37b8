package lodcache

import (
	"fmt"
	"sync"
)

// DereferencerRegistry maps a lowercased IRI scheme to the Dereferencer
// responsible for it (C4).
type DereferencerRegistry struct {
	mu            sync.RWMutex
	dereferencers map[string]Dereferencer
	names         map[string]string
}

// NewDereferencerRegistry returns an empty registry.
func NewDereferencerRegistry() *DereferencerRegistry {
	return &DereferencerRegistry{
		dereferencers: make(map[string]Dereferencer),
		names:         make(map[string]string),
	}
}

// Register associates a Dereferencer with an IRI scheme. name is the
// symbolic name recorded on a CacheEntry when this dereferencer is used.
func (r *DereferencerRegistry) Register(scheme string, dref Dereferencer, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dereferencers[scheme] = dref
	r.names[scheme] = name
}

// Lookup returns the Dereferencer registered for scheme and its symbolic
// name, or ok=false if none is registered.
func (r *DereferencerRegistry) Lookup(scheme string) (Dereferencer, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dref, ok := r.dereferencers[scheme]
	if !ok {
		return nil, "", false
	}
	return dref, r.names[scheme], true
}

func (r *DereferencerRegistry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("DereferencerRegistry(%d schemes)", len(r.dereferencers))
}
