package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"knights/internal/knight/metrics"
	"knights/internal/knight/models"
	"knights/pkg/domain"
	dErrors "knights/pkg/domain-errors"
	"knights/pkg/platform/sentinel"
	"knights/pkg/requestcontext"
	"knights/pkg/search"
)

const tracerName = "knights/internal/knight/service"

// Store is the repository contract both knight backends satisfy.
type Store interface {
	Insert(ctx context.Context, k *models.Knight) error
	FindByID(ctx context.Context, id domain.KnightID) (*models.Knight, error)
	FindAll(ctx context.Context) ([]*models.Knight, error)
	Update(ctx context.Context, k *models.Knight) error
	Delete(ctx context.Context, id domain.KnightID) error
	Search(ctx context.Context, p models.SearchParams) (models.SearchResult, error)
	EnsureNicknameAvailable(ctx context.Context, nickname string) error
}

// UncachedFinder is implemented by stores that serve FindByID from a cache.
// Use cases that read, modify and write load through it.
type UncachedFinder interface {
	FindByIDUncached(ctx context.Context, id domain.KnightID) (*models.Knight, error)
}

// Service orchestrates the knight use cases.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("knight store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// CreateInput carries the sanitized fields of a create request. Weapon and
// attribute values stay optional until ValidateDraft has run.
type CreateInput struct {
	Name         string
	Nickname     string
	Birthday     time.Time
	Weapons      []models.WeaponDraft
	Attributes   *models.AttributesDraft
	KeyAttribute models.AttributeKey
}

func (in CreateInput) draft() models.KnightDraft {
	return models.KnightDraft{
		Name:         in.Name,
		Nickname:     in.Nickname,
		Birthday:     in.Birthday,
		Weapons:      in.Weapons,
		Attributes:   in.Attributes,
		KeyAttribute: in.KeyAttribute,
	}
}

func (in CreateInput) check() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	case strings.TrimSpace(in.Nickname) == "":
		return dErrors.New(dErrors.CodeBadRequest, "nickname is required")
	case in.Birthday.IsZero():
		return dErrors.New(dErrors.CodeBadRequest, "birthday is required")
	case len(in.Weapons) == 0:
		return dErrors.New(dErrors.CodeBadRequest, "weapons are required")
	case in.Attributes == nil:
		return dErrors.New(dErrors.CodeBadRequest, "attributes are required")
	case in.KeyAttribute == "":
		return dErrors.New(dErrors.CodeBadRequest, "keyAttribute is required")
	}
	return nil
}

// ListInput is a raw listing query. Filter selects the heroes-only view.
type ListInput struct {
	search.Raw
	Filter string
}

// UpdateNicknameInput renames a knight.
type UpdateNicknameInput struct {
	ID       domain.KnightID
	Nickname string
}

// Create registers a knight. The nickname is checked before the entity is
// built, so a duplicate never reaches the store.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Knight, error) {
	ctx, span := s.tracer.Start(ctx, "knight.Create")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveCreate(time.Now())
	}

	if err := in.check(); err != nil {
		return nil, s.fail(span, err)
	}
	if err := s.store.EnsureNicknameAvailable(ctx, in.Nickname); err != nil {
		return nil, s.fail(span, s.translate(err, "failed to check nickname"))
	}

	draft := in.draft()
	if err := models.ValidateDraft(&draft); err != nil {
		return nil, s.fail(span, err)
	}
	k, err := models.NewKnight(domain.KnightID{}, draft.Props(), requestcontext.Now(ctx))
	if err != nil {
		return nil, s.fail(span, err)
	}

	if err := s.store.Insert(ctx, k); err != nil {
		return nil, s.fail(span, s.translate(err, "failed to create knight"))
	}
	span.SetAttributes(attribute.String("knight.id", k.ID().String()))

	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	return k, nil
}

// Get fetches one knight.
func (s *Service) Get(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	ctx, span := s.tracer.Start(ctx, "knight.Get", trace.WithAttributes(attribute.String("knight.id", id.String())))
	defer span.End()

	k, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, s.translate(err, "failed to load knight"))
	}
	return k, nil
}

// List returns one page of knights.
func (s *Service) List(ctx context.Context, in ListInput) (models.SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "knight.List")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveList(time.Now())
	}

	p := models.NewSearchParams(in.Raw, in.Filter)
	span.SetAttributes(
		attribute.Int("search.page", p.Page),
		attribute.Int("search.per_page", p.PerPage),
		attribute.Bool("search.heroes_only", p.HeroesOnly),
	)

	res, err := s.store.Search(ctx, p)
	if err != nil {
		return models.SearchResult{}, s.fail(span, s.translate(err, "failed to list knights"))
	}
	return res, nil
}

// UpdateNickname renames a knight. The uniqueness check is skipped when the
// nickname is unchanged.
func (s *Service) UpdateNickname(ctx context.Context, in UpdateNicknameInput) (*models.Knight, error) {
	ctx, span := s.tracer.Start(ctx, "knight.UpdateNickname", trace.WithAttributes(attribute.String("knight.id", in.ID.String())))
	defer span.End()

	if strings.TrimSpace(in.Nickname) == "" {
		return nil, s.fail(span, dErrors.New(dErrors.CodeBadRequest, "nickname is required"))
	}

	k, err := s.loadForUpdate(ctx, in.ID)
	if err != nil {
		return nil, s.fail(span, s.translate(err, "failed to load knight"))
	}
	if k.Nickname() != in.Nickname {
		if err := s.store.EnsureNicknameAvailable(ctx, in.Nickname); err != nil {
			return nil, s.fail(span, s.translate(err, "failed to check nickname"))
		}
	}

	if err := k.UpdateNickname(in.Nickname, requestcontext.Now(ctx)); err != nil {
		return nil, s.fail(span, err)
	}
	if err := s.store.Update(ctx, k); err != nil {
		return nil, s.fail(span, s.translate(err, "failed to update knight"))
	}

	s.logger.InfoContext(ctx, "knight nickname updated",
		"request_id", requestcontext.RequestID(ctx),
		"knight_id", k.ID().String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementNicknameChanged()
	}
	return k, nil
}

// Heroify promotes a knight. Promoting twice fails with
// CodeActionAlreadyDone and leaves the stored knight untouched.
func (s *Service) Heroify(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	ctx, span := s.tracer.Start(ctx, "knight.Heroify", trace.WithAttributes(attribute.String("knight.id", id.String())))
	defer span.End()

	k, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, s.fail(span, s.translate(err, "failed to load knight"))
	}
	if k.IsHero() {
		return nil, s.fail(span, errAlreadyHero())
	}

	k.Heroify(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, k); err != nil {
		if errors.Is(err, sentinel.ErrPreconditionFailed) {
			return nil, s.fail(span, errAlreadyHero())
		}
		return nil, s.fail(span, s.translate(err, "failed to heroify knight"))
	}

	s.logger.InfoContext(ctx, "knight heroified",
		"request_id", requestcontext.RequestID(ctx),
		"knight_id", k.ID().String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementHeroified()
	}
	return k, nil
}

// Delete removes a knight from storage.
func (s *Service) Delete(ctx context.Context, id domain.KnightID) error {
	ctx, span := s.tracer.Start(ctx, "knight.Delete", trace.WithAttributes(attribute.String("knight.id", id.String())))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(span, s.translate(err, "failed to delete knight"))
	}
	s.logger.InfoContext(ctx, "knight deleted",
		"request_id", requestcontext.RequestID(ctx),
		"knight_id", id.String(),
	)
	return nil
}

// loadForUpdate reads past any cache so guards see the stored state.
func (s *Service) loadForUpdate(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	if f, ok := s.store.(UncachedFinder); ok {
		return f.FindByIDUncached(ctx, id)
	}
	return s.store.FindByID(ctx, id)
}

func errAlreadyHero() error {
	return dErrors.New(dErrors.CodeActionAlreadyDone, "the knight has already been transformed into a hero")
}

// translate maps store sentinels to coded errors. Coded errors pass through.
func (s *Service) translate(err error, msg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMessage(err))
	case errors.Is(err, sentinel.ErrConflict):
		if s.metrics != nil {
			s.metrics.IncrementConflict()
		}
		return dErrors.New(dErrors.CodeConflict, "Nickname already used")
	case errors.Is(err, sentinel.ErrPreconditionFailed):
		return dErrors.Wrap(err, dErrors.CodeConflict, "knight was modified concurrently")
	case errors.Is(err, sentinel.ErrNotImplemented):
		return dErrors.Wrap(err, dErrors.CodeNotImplemented, "operation not supported by this store")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	case errors.Is(err, sentinel.ErrLoadFailed):
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not load knight from storage")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// notFoundMessage keeps the id the store named, e.g. "knight 65f0...: not found".
func notFoundMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.ErrNotFound.Error())
	if msg == err.Error() || msg == "" {
		return "knight not found"
	}
	return fmt.Sprintf("%s not found", msg)
}
