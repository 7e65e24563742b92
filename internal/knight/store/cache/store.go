// Package cache keeps recently read knights in Redis in front of a knight
// store. Reads go through the cache; writes go to the backend and evict.
// Read-modify-write callers use FindByIDUncached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"knights/internal/knight/models"
	"knights/internal/knight/service"
	"knights/pkg/domain"
	"knights/pkg/requestcontext"
)

const (
	keyPrefix  = "knights:knight:"
	DefaultTTL = 5 * time.Minute
)

// Client is the part of go-redis the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore decorates a knight store. Operations it does not override
// pass straight through to the backend. Cache failures are logged and never
// fail a request.
type CachedStore struct {
	service.Store
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(s *CachedStore)

func WithTTL(ttl time.Duration) Option {
	return func(s *CachedStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *CachedStore) {
		s.logger = logger
	}
}

func New(backend service.Store, client Client, opts ...Option) *CachedStore {
	s := &CachedStore{Store: backend, client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// entry is the cached form of a knight. Derived attributes are recomputed on
// read so age stays current.
type entry struct {
	Name         string              `json:"name"`
	Nickname     string              `json:"nickname"`
	Birthday     time.Time           `json:"birthday"`
	Weapons      []models.Weapon     `json:"weapons"`
	Attributes   models.Attributes   `json:"attributes"`
	KeyAttribute models.AttributeKey `json:"keyAttribute"`
	HeroifiedAt  *time.Time          `json:"heroifiedAt,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    *time.Time          `json:"updatedAt,omitempty"`
}

func (s *CachedStore) FindByID(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	key := cacheKey(id)
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		k, decErr := decode(id, raw, requestcontext.Now(ctx))
		if decErr == nil {
			return k, nil
		}
		s.logger.WarnContext(ctx, "discarding unreadable cached knight", "knight_id", id.String(), "error", decErr)
	case !errors.Is(err, redis.Nil):
		s.logger.WarnContext(ctx, "knight cache read failed", "knight_id", id.String(), "error", err)
	}

	k, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, k)
	return k, nil
}

// FindByIDUncached reads the backend and leaves the cache untouched.
func (s *CachedStore) FindByIDUncached(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	return s.Store.FindByID(ctx, id)
}

func (s *CachedStore) Update(ctx context.Context, k *models.Knight) error {
	if err := s.Store.Update(ctx, k); err != nil {
		return err
	}
	s.evict(ctx, k.ID())
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, id domain.KnightID) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *CachedStore) put(ctx context.Context, key string, k *models.Knight) {
	raw, err := encode(k)
	if err != nil {
		s.logger.WarnContext(ctx, "knight cache encode failed", "knight_id", k.ID().String(), "error", err)
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "knight cache write failed", "knight_id", k.ID().String(), "error", err)
	}
}

func (s *CachedStore) evict(ctx context.Context, id domain.KnightID) {
	if err := s.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		s.logger.WarnContext(ctx, "knight cache evict failed", "knight_id", id.String(), "error", err)
	}
}

func cacheKey(id domain.KnightID) string {
	return keyPrefix + id.String()
}

func encode(k *models.Knight) ([]byte, error) {
	return json.Marshal(entry{
		Name:         k.Name(),
		Nickname:     k.Nickname(),
		Birthday:     k.Birthday(),
		Weapons:      k.Weapons(),
		Attributes:   k.Attributes(),
		KeyAttribute: k.KeyAttribute(),
		HeroifiedAt:  k.HeroifiedAt(),
		CreatedAt:    k.CreatedAt(),
		UpdatedAt:    k.UpdatedAt(),
	})
}

func decode(id domain.KnightID, raw []byte, now time.Time) (*models.Knight, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cached knight: %w", err)
	}
	attrs := e.Attributes
	return models.NewKnight(id, models.KnightProps{
		Name:         e.Name,
		Nickname:     e.Nickname,
		Birthday:     e.Birthday,
		Weapons:      e.Weapons,
		Attributes:   &attrs,
		KeyAttribute: e.KeyAttribute,
		HeroifiedAt:  e.HeroifiedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}, now)
}
