// Package audit records user-visible actions in the application log tables.
//
// Every entry belongs to a category (view, mutation, mail, resterror, ...)
// whose id lives in the z_log_categories table. Ids are resolved by name on
// first use and cached for the life of the process.
package audit

import (
	"context"
	"fmt"
	"sync"
)

// Store is the storage surface the audit log needs: statement execution plus
// single-value lookups for category resolution.
type Store interface {
	Exec(ctx context.Context, sql, types string, values ...any) error
	QueryInt(ctx context.Context, sql, types string, values ...any) (int64, bool, error)
}

// Service writes audit entries through a statement gateway.
type Service struct {
	store Store

	mu         sync.RWMutex
	categories map[string]int64
}

// NewService creates an audit service over an open gateway.
func NewService(store Store) *Service {
	return &Service{
		store:      store,
		categories: make(map[string]int64),
	}
}

// CategoryID resolves a log category id by name, caching the result.
func (s *Service) CategoryID(ctx context.Context, name string) (int64, error) {
	s.mu.RLock()
	id, ok := s.categories[name]
	s.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, found, err := s.store.QueryInt(ctx,
		"SELECT id FROM z_log_categories WHERE name = ?", "s", name)
	if err != nil {
		return 0, fmt.Errorf("audit: resolve category %q: %w", name, err)
	}
	if !found {
		return 0, fmt.Errorf("audit: unknown log category %q", name)
	}

	s.mu.Lock()
	s.categories[name] = id
	s.mu.Unlock()
	return id, nil
}

// LogAction writes one entry under the given category id. The subject is the
// value the entry is about (a record name, an error code, a user id).
func (s *Service) LogAction(ctx context.Context, categoryID int64, message string, subject any) error {
	err := s.store.Exec(ctx,
		"INSERT INTO z_log (category, message, value) VALUES (?, ?, ?)",
		"iss", categoryID, message, fmt.Sprint(subject))
	if err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}
	return nil
}

// LogActionByCategory resolves the category by name, then writes the entry.
func (s *Service) LogActionByCategory(ctx context.Context, category, message string, subject any) error {
	id, err := s.CategoryID(ctx, category)
	if err != nil {
		return err
	}
	return s.LogAction(ctx, id, message, subject)
}
