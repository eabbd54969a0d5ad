package model

import (
	"sync"

	"github.com/dvloznov/notionplus/internal/collection"
	"github.com/dvloznov/notionplus/internal/schema"
)

// Registry memoizes Models by database id and schema content so repeated
// lookups with the same parameters share one instance. It is safe for
// concurrent use. Callers must not rely on Model identity.
type Registry struct {
	svc collection.Service

	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry creates a registry whose models all use svc.
func NewRegistry(svc collection.Service) *Registry {
	return &Registry{
		svc:    svc,
		models: make(map[string]*Model),
	}
}

// Model returns the model for (collectionID, s), constructing it if absent.
func (r *Registry) Model(collectionID string, s *schema.Schema) (*Model, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	id, err := NormalizeID(collectionID)
	if err != nil {
		return nil, err
	}
	key := id + "_" + s.Fingerprint()

	r.mu.RLock()
	m, ok := r.models[key]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.models[key]; ok {
		return m, nil
	}
	m, err = New(r.svc, id, s)
	if err != nil {
		return nil, err
	}
	r.models[key] = m
	return m, nil
}

// Len returns the number of distinct models built so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
