package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"knights/internal/knight/models"
	"knights/internal/knight/service"
	"knights/pkg/domain"
	"knights/pkg/platform/httputil"
	"knights/pkg/requestcontext"
	"knights/pkg/search"
)

// Service defines the knight use cases the handler drives.
type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.Knight, error)
	Get(ctx context.Context, id domain.KnightID) (*models.Knight, error)
	List(ctx context.Context, in service.ListInput) (models.SearchResult, error)
	UpdateNickname(ctx context.Context, in service.UpdateNicknameInput) (*models.Knight, error)
	Heroify(ctx context.Context, id domain.KnightID) (*models.Knight, error)
}

// Handler wires the /v1/knights endpoints to the knight service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the knight endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/knights", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleHeroify)
	})
}

// HandleList handles GET /v1/knights.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	q := r.URL.Query()

	res, err := h.service.List(ctx, service.ListInput{
		Raw:    search.FromQuery(q),
		Filter: q.Get("filter"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list knights",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromResult(res, viewFrom(r)))
}

// HandleCreate handles POST /v1/knights.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateKnightRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	k, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		h.logFailure(ctx, "failed to create knight", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "knight created",
		"request_id", requestID,
		"knight_id", k.ID().String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromKnight(k))
}

// HandleGet handles GET /v1/knights/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	k, err := h.service.Get(ctx, id)
	if err != nil {
		h.logFailure(ctx, "failed to get knight", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, present(k, viewFrom(r)))
}

// HandleUpdate handles PUT /v1/knights/{id}. Only the nickname is mutable.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateKnightRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	k, err := h.service.UpdateNickname(ctx, service.UpdateNicknameInput{ID: id, Nickname: req.Nickname})
	if err != nil {
		h.logFailure(ctx, "failed to update knight", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromKnight(k))
}

// HandleHeroify handles DELETE /v1/knights/{id}: the knight leaves the roster
// by becoming a hero.
func (h *Handler) HandleHeroify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if _, err := h.service.Heroify(ctx, id); err != nil {
		h.logFailure(ctx, "failed to heroify knight", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logFailure logs caller mistakes at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if status := statusOf(err); status >= 400 && status < 500 {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
}

func parseID(r *http.Request) (domain.KnightID, error) {
	return domain.ParseKnightID(chi.URLParam(r, "id"))
}
