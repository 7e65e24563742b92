package cache

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knights/internal/knight/models"
	"knights/internal/knight/models/knighttest"
	"knights/internal/knight/service"
	"knights/internal/knight/store/memory"
	"knights/pkg/domain"
	dErrors "knights/pkg/domain-errors"
	"knights/pkg/requestcontext"
	"knights/pkg/testutil"
)

// stallingStore holds the first FindByID after the backend has answered, so
// a write can land between the read and the cache fill.
type stallingStore struct {
	service.Store
	stalled atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (s *stallingStore) FindByID(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	k, err := s.Store.FindByID(ctx, id)
	if s.stalled.CompareAndSwap(false, true) {
		close(s.read)
		<-s.release
	}
	return k, err
}

func TestHeroifyIgnoresStaleCacheFill(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := memory.New()
	k := knighttest.New(t)
	require.NoError(t, backend.Insert(context.Background(), k))

	stalling := &stallingStore{Store: backend, read: make(chan struct{}), release: make(chan struct{})}
	cached := New(stalling, newFakeRedis(), WithLogger(logger))
	svc, err := service.New(cached, service.WithLogger(logger))
	require.NoError(t, err)

	first := knighttest.Now.Add(time.Hour)
	second := first.Add(time.Minute)

	testutil.Given(t, "a cache fill that read the knight before it was heroified", func(t *testing.T) {
		done := make(chan error, 1)
		go func() {
			_, err := cached.FindByID(requestcontext.WithTime(context.Background(), first), k.ID())
			done <- err
		}()
		<-stalling.read

		_, err := svc.Heroify(requestcontext.WithTime(context.Background(), first), k.ID())
		require.NoError(t, err)

		close(stalling.release)
		require.NoError(t, <-done)

		testutil.When(t, "the knight is heroified again", func(t *testing.T) {
			_, err := svc.Heroify(requestcontext.WithTime(context.Background(), second), k.ID())

			testutil.Then(t, "it is already done and heroifiedAt is unchanged", func(t *testing.T) {
				require.Error(t, err)
				assert.True(t, dErrors.Is(err, dErrors.CodeActionAlreadyDone))

				stored, err := backend.FindByID(context.Background(), k.ID())
				require.NoError(t, err)
				require.NotNil(t, stored.HeroifiedAt())
				assert.Equal(t, first, *stored.HeroifiedAt())
			})
		})
	})
}
