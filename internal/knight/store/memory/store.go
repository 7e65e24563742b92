// Package memory is the in-process knight backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"knights/internal/knight/models"
	"knights/pkg/domain"
	"knights/pkg/platform/sentinel"
	"knights/pkg/search"
)

var comparators = search.Comparators[*models.Knight]{
	"name": func(a, b *models.Knight) int {
		return search.CompareStrings(a.Name(), b.Name())
	},
	"createdAt": func(a, b *models.Knight) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	},
}

// InMemoryStore keeps knights in insertion order behind one RWMutex.
// Knights are cloned on the way in and out so callers never share state
// with the collection.
type InMemoryStore struct {
	mu      sync.RWMutex
	knights []*models.Knight
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

// Insert adds a knight. Duplicate ids and nicknames are conflicts.
func (s *InMemoryStore) Insert(_ context.Context, k *models.Knight) error {
	if k == nil {
		return fmt.Errorf("knight is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(k.ID()) >= 0 {
		return fmt.Errorf("knight %s: %w", k.ID(), sentinel.ErrConflict)
	}
	if s.nicknameTaken(k.Nickname(), domain.KnightID{}) {
		return fmt.Errorf("nickname %q: %w", k.Nickname(), sentinel.ErrConflict)
	}
	s.knights = append(s.knights, k.Clone())
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.KnightID) (*models.Knight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("knight %s: %w", id, sentinel.ErrNotFound)
	}
	return s.knights[i].Clone(), nil
}

// FindAll returns every knight in insertion order.
func (s *InMemoryStore) FindAll(_ context.Context) ([]*models.Knight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Knight, len(s.knights))
	for i, k := range s.knights {
		out[i] = k.Clone()
	}
	return out, nil
}

// Update replaces a stored knight, keeping its position.
func (s *InMemoryStore) Update(_ context.Context, k *models.Knight) error {
	if k == nil {
		return fmt.Errorf("knight is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(k.ID())
	if i < 0 {
		return fmt.Errorf("knight %s: %w", k.ID(), sentinel.ErrNotFound)
	}
	if !heroifiedAtKept(s.knights[i], k) {
		return fmt.Errorf("knight %s heroifiedAt: %w", k.ID(), sentinel.ErrPreconditionFailed)
	}
	if s.nicknameTaken(k.Nickname(), k.ID()) {
		return fmt.Errorf("nickname %q: %w", k.Nickname(), sentinel.ErrConflict)
	}
	s.knights[i] = k.Clone()
	return nil
}

// heroifiedAtKept reports whether next leaves a stored heroification as is.
func heroifiedAtKept(stored, next *models.Knight) bool {
	was := stored.HeroifiedAt()
	if was == nil {
		return true
	}
	now := next.HeroifiedAt()
	return now != nil && now.Equal(*was)
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.KnightID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("knight %s: %w", id, sentinel.ErrNotFound)
	}
	s.knights = append(s.knights[:i], s.knights[i+1:]...)
	return nil
}

// EnsureNicknameAvailable fails with sentinel.ErrConflict when any knight
// already uses nickname (exact match).
func (s *InMemoryStore) EnsureNicknameAvailable(_ context.Context, nickname string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.nicknameTaken(nickname, domain.KnightID{}) {
		return fmt.Errorf("nickname %q: %w", nickname, sentinel.ErrConflict)
	}
	return nil
}

// Search filters to heroes when asked, then by name substring, then sorts
// stably and slices one page. Total counts the filtered set.
// Stored knights are replaced, never mutated in place, so the snapshot taken
// under the read lock stays consistent after it is released.
func (s *InMemoryStore) Search(_ context.Context, p models.SearchParams) (models.SearchResult, error) {
	s.mu.RLock()
	candidates := make([]*models.Knight, 0, len(s.knights))
	for _, k := range s.knights {
		if p.HeroesOnly && !k.IsHero() {
			continue
		}
		candidates = append(candidates, k)
	}
	s.mu.RUnlock()

	filtered := search.Contains(candidates, p.FilterBy, (*models.Knight).Name)
	search.Sort(filtered, p.Order(), comparators)

	page := search.Paginate(filtered, p.Params)
	items := make([]*models.Knight, len(page))
	for i, k := range page {
		items[i] = k.Clone()
	}
	return search.NewResult(items, len(filtered), p.Params), nil
}

// Len reports the number of stored knights.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.knights)
}

func (s *InMemoryStore) indexOf(id domain.KnightID) int {
	for i, k := range s.knights {
		if k.ID() == id {
			return i
		}
	}
	return -1
}

func (s *InMemoryStore) nicknameTaken(nickname string, except domain.KnightID) bool {
	for _, k := range s.knights {
		if k.Nickname() == nickname && k.ID() != except {
			return true
		}
	}
	return false
}
