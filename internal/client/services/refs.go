package services

import (
	"context"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

// RefAPI is one admin collection; api.Resource satisfies it.
type RefAPI[T models.Reference] interface {
	List(ctx context.Context, filter url.Values) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// RefManager keeps the displayed list of one reference entity in step with
// the backend. The list changes only after the backend confirms a change.
type RefManager[T models.Reference] struct {
	api RefAPI[T]
	guard
	log logging.Logger

	mu     sync.Mutex
	items  []T
	filter url.Values
}

func NewRefManager[T models.Reference](a RefAPI[T], inv Invalidator, log logging.Logger) *RefManager[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &RefManager[T]{api: a, guard: guard{inv: inv}, log: log}
}

func (m *RefManager[T]) Load(ctx context.Context, filter url.Values) ([]T, error) {
	items, err := m.api.List(ctx, filter)
	if err != nil {
		return nil, m.check(ctx, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.filter = filter
	return append([]T(nil), items...), nil
}

// Items returns the displayed list.
func (m *RefManager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...)
}

func (m *RefManager[T]) Find(id int64) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.RefID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (m *RefManager[T]) Create(ctx context.Context, v T) (T, error) {
	if err := v.Validate(); err != nil {
		var zero T
		return zero, err
	}
	created, err := m.api.Create(ctx, v)
	if err != nil {
		return created, m.check(ctx, err)
	}
	m.mu.Lock()
	m.items = append(m.items, created)
	m.mu.Unlock()
	return created, nil
}

func (m *RefManager[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	if err := v.Validate(); err != nil {
		var zero T
		return zero, err
	}
	updated, err := m.api.Update(ctx, id, v)
	if err != nil {
		return updated, m.check(ctx, err)
	}
	m.mu.Lock()
	for i := range m.items {
		if m.items[i].RefID() == id {
			m.items[i] = updated
		}
	}
	m.mu.Unlock()
	return updated, nil
}

// Delete removes the entity. On failure the backend's message is returned
// unchanged as the error and the entity stays in the list.
func (m *RefManager[T]) Delete(ctx context.Context, id int64) (string, error) {
	msg, err := m.api.Delete(ctx, id)
	if err != nil {
		m.log.Info(ctx, "delete rejected", "id", id, "error", err)
		return "", m.check(ctx, err)
	}
	m.mu.Lock()
	kept := m.items[:0:0]
	for _, it := range m.items {
		if it.RefID() != id {
			kept = append(kept, it)
		}
	}
	m.items = kept
	m.mu.Unlock()
	return msg, nil
}

// Reload repeats the last Load with the same filter.
func (m *RefManager[T]) Reload(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	f := m.filter
	m.mu.Unlock()
	return m.Load(ctx, f)
}
