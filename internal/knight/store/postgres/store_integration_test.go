//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"knights/internal/knight/models"
	"knights/internal/knight/models/knighttest"
	"knights/internal/knight/store/postgres"
	"knights/pkg/platform/sentinel"
	"knights/pkg/requestcontext"
	"knights/pkg/search"
	"knights/pkg/testutil/containers"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.PostgresStore
	ctx      context.Context
}

func TestPostgresIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.ctx = requestcontext.WithTime(context.Background(), knighttest.Now)
	s.Require().NoError(s.store.Migrate(s.ctx))
	// a second run must be a no-op
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *PostgresIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background()))
}

func (s *PostgresIntegrationSuite) insert(opts ...knighttest.Option) *models.Knight {
	k := knighttest.New(s.T(), opts...)
	s.Require().NoError(s.store.Insert(s.ctx, k))
	return k
}

func names(knights []*models.Knight) []string {
	out := make([]string, 0, len(knights))
	for _, k := range knights {
		out = append(out, k.Name())
	}
	return out
}

func (s *PostgresIntegrationSuite) TestRoundTrip() {
	k := s.insert()

	found, err := s.store.FindByID(s.ctx, k.ID())
	s.Require().NoError(err)
	s.Equal(k.ID(), found.ID())
	s.Equal(k.Nickname(), found.Nickname())
	s.Equal(k.Weapons(), found.Weapons())
	s.Equal(k.Attributes(), found.Attributes())
	s.True(k.Birthday().Equal(found.Birthday()))
	s.True(k.CreatedAt().Equal(found.CreatedAt()))
	s.Equal(14, found.Attack())
	s.Equal(2387, found.Experience())
	s.Nil(found.HeroifiedAt())
}

func (s *PostgresIntegrationSuite) TestHeroifyPersists() {
	k := s.insert()
	heroifiedAt := knighttest.Now.Add(24 * time.Hour)
	k.Heroify(heroifiedAt)
	s.Require().NoError(s.store.Update(s.ctx, k))

	found, err := s.store.FindByID(s.ctx, k.ID())
	s.Require().NoError(err)
	s.True(found.IsHero())
	s.True(heroifiedAt.Equal(*found.HeroifiedAt()))

	res, err := s.store.Search(s.ctx, models.NewSearchParams(search.Raw{}, models.FilterHeroes))
	s.Require().NoError(err)
	s.Equal(1, res.Total)

	s.Run("a stale promotion does not overwrite heroifiedAt", func() {
		stale := knighttest.New(s.T())
		s.Require().NoError(s.store.Insert(s.ctx, stale))
		fresh, err := s.store.FindByID(s.ctx, stale.ID())
		s.Require().NoError(err)

		fresh.Heroify(heroifiedAt)
		s.Require().NoError(s.store.Update(s.ctx, fresh))
		stale.Heroify(heroifiedAt.Add(time.Minute))
		s.Require().True(errors.Is(s.store.Update(s.ctx, stale), sentinel.ErrPreconditionFailed))

		again, err := s.store.FindByID(s.ctx, stale.ID())
		s.Require().NoError(err)
		s.True(heroifiedAt.Equal(*again.HeroifiedAt()))
	})
}

func (s *PostgresIntegrationSuite) TestNotFound() {
	k := knighttest.New(s.T())

	_, err := s.store.FindByID(s.ctx, k.ID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Update(s.ctx, k), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, k.ID()), sentinel.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestNicknameConflicts() {
	a := s.insert(knighttest.WithNickname("taken"))
	b := s.insert()

	s.ErrorIs(s.store.EnsureNicknameAvailable(s.ctx, "taken"), sentinel.ErrConflict)
	s.NoError(s.store.EnsureNicknameAvailable(s.ctx, "free"))

	s.ErrorIs(s.store.Insert(s.ctx, knighttest.New(s.T(), knighttest.WithNickname("taken"))), sentinel.ErrConflict)

	s.Require().NoError(b.UpdateNickname(a.Nickname(), knighttest.Now))
	s.ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrConflict)
}

// TestConcurrentInsertSameNickname verifies the unique constraint admits
// exactly one of many racing inserts.
func (s *PostgresIntegrationSuite) TestConcurrentInsertSameNickname() {
	const goroutines = 20
	var wg sync.WaitGroup
	var ok, conflicts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Insert(s.ctx, knighttest.New(s.T(), knighttest.WithNickname("lonely")))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), ok.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresIntegrationSuite) TestSearchPaging() {
	for i := 0; i < 16; i++ {
		s.insert(
			knighttest.WithName(fmt.Sprintf("knight-%02d", i)),
			knighttest.WithCreatedAt(knighttest.Now.Add(time.Duration(i)*time.Minute)),
		)
	}

	first, err := s.store.Search(s.ctx, models.NewSearchParams(search.Raw{}, ""))
	s.Require().NoError(err)
	s.Equal(16, first.Total)
	s.Equal(2, first.LastPage)
	s.Require().Len(first.Items, 15)
	s.Equal("knight-15", first.Items[0].Name())

	second, err := s.store.Search(s.ctx, models.NewSearchParams(search.Raw{Page: 2}, ""))
	s.Require().NoError(err)
	s.Equal([]string{"knight-00"}, names(second.Items))

	beyond, err := s.store.Search(s.ctx, models.NewSearchParams(search.Raw{Page: 3}, ""))
	s.Require().NoError(err)
	s.Empty(beyond.Items)
	s.Equal(16, beyond.Total)
}

func (s *PostgresIntegrationSuite) TestSearchNameOrderIsByteWise() {
	for _, name := range []string{"b", "Aa", "c", "a", "AA"} {
		s.insert(knighttest.WithName(name))
	}

	res, err := s.store.Search(s.ctx, models.NewSearchParams(search.Raw{Sort: "name", SortDir: "asc"}, ""))
	s.Require().NoError(err)
	s.Equal([]string{"AA", "Aa", "a", "b", "c"}, names(res.Items))

	filtered, err := s.store.Search(s.ctx, models.NewSearchParams(search.Raw{Sort: "name", SortDir: "desc", FilterBy: "a"}, ""))
	s.Require().NoError(err)
	s.Equal([]string{"a", "Aa", "AA"}, names(filtered.Items))
}

func (s *PostgresIntegrationSuite) TestDelete() {
	k := s.insert()
	s.Require().NoError(s.store.Delete(s.ctx, k.ID()))

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}
