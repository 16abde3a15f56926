// Package memory keeps the portfolio in process memory. It backs the CLI and
// single-node deployments that do not configure PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// PatentRepository is a mutex-guarded patent.Repository.
type PatentRepository struct {
	mu    sync.RWMutex
	items []*patent.Patent // newest first
	index map[string]int
}

// NewPatentRepository returns an empty repository.
func NewPatentRepository() *PatentRepository {
	return &PatentRepository{index: make(map[string]int)}
}

func (r *PatentRepository) Save(_ context.Context, p *patent.Patent) error {
	if p == nil || p.ID == "" {
		return errors.InvalidParam("patent id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[p.ID]; ok {
		return errors.New(errors.ErrCodePatentAlreadyExists, "patent already exists").WithDetail(p.ID)
	}
	r.items = append([]*patent.Patent{p.Clone()}, r.items...)
	r.reindex()
	return nil
}

func (r *PatentRepository) SaveAll(_ context.Context, ps ...*patent.Patent) error {
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if p == nil || p.ID == "" {
			return errors.InvalidParam("patent id is required")
		}
		if _, ok := seen[p.ID]; ok {
			return errors.New(errors.ErrCodePatentAlreadyExists, "duplicate patent id in batch").WithDetail(p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ps {
		if _, ok := r.index[p.ID]; ok {
			return errors.New(errors.ErrCodePatentAlreadyExists, "patent already exists").WithDetail(p.ID)
		}
	}
	items := make([]*patent.Patent, 0, len(ps)+len(r.items))
	for _, p := range ps {
		items = append(items, p.Clone())
	}
	r.items = append(items, r.items...)
	r.reindex()
	return nil
}

func (r *PatentRepository) Update(_ context.Context, p *patent.Patent) error {
	if p == nil {
		return errors.InvalidParam("patent is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[p.ID]
	if !ok {
		return notFound(p.ID)
	}
	r.items[i] = p.Clone()
	return nil
}

func (r *PatentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return notFound(id)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	r.reindex()
	return nil
}

func (r *PatentRepository) FindByID(_ context.Context, id string) (*patent.Patent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, notFound(id)
	}
	return r.items[i].Clone(), nil
}

func (r *PatentRepository) List(_ context.Context) ([]*patent.Patent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*patent.Patent, len(r.items))
	for i, p := range r.items {
		out[i] = p.Clone()
	}
	return out, nil
}

// Len reports the number of stored records.
func (r *PatentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *PatentRepository) reindex() {
	clear(r.index)
	for i, p := range r.items {
		r.index[p.ID] = i
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodePatentNotFound, "patent not found").WithDetail(id)
}

var _ patent.Repository = (*PatentRepository)(nil)

//Personal.AI order the ending
