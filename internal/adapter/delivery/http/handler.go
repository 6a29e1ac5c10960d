package http

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

type shortlinkUseCase interface {
	Create(ctx context.Context, fullURL string, shortURL *string) (*entity.Shortlink, error)
	Resolve(ctx context.Context, shortURL string) (string, error)
	GetStats(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error)
	Delete(ctx context.Context, shortURL, adminKey string) error
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func handleStatus(db pinger) http.HandlerFunc {
	const op = "adapter.delivery.http.handleStatus"

	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Status{Status: response.StatusUnavailable})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.Status{Status: response.StatusOK})
	}
}

type shortlinkHandler struct {
	useCase    shortlinkUseCase
	validate   *validator.Validate
	linkPrefix string
}

func newShortlinkHandler(useCase shortlinkUseCase, validate *validator.Validate, linkPrefix string) *shortlinkHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Only fails on an empty tag or nil func.
	_ = validate.RegisterValidation("notreserved", validateNotReserved)

	return &shortlinkHandler{
		useCase:    useCase,
		validate:   validate,
		linkPrefix: linkPrefix,
	}
}

func (h *shortlinkHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.shortlinkHandler.create"

	query := r.URL.Query()

	req := createRequest{FullURL: query.Get("full_url")}
	if query.Has("short_url") {
		shortURL := query.Get("short_url")
		req.ShortURL = &shortURL
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return
	}

	link, err := h.useCase.Create(r.Context(), req.FullURL, req.ShortURL)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidInput):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.NoFullURLResponse)
		case errors.Is(err, entity.ErrShortCodeExists):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.ShortURLExistsResponse)
		default:
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.toShortlinkResponse(link))
}

func (h *shortlinkHandler) resolve(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.shortlinkHandler.resolve"

	shortURL := chi.URLParam(r, "shortURL")

	fullURL, err := h.useCase.Resolve(r.Context(), shortURL)
	if err != nil {
		if errors.Is(err, entity.ErrShortlinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.InvalidShortURLResponse)
			return
		}

		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	http.Redirect(w, r, fullURL, http.StatusTemporaryRedirect)
}

func (h *shortlinkHandler) getStats(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.shortlinkHandler.getStats"

	shortURL := chi.URLParam(r, "shortURL")
	adminKey := chi.URLParam(r, "adminKey")

	link, err := h.useCase.GetStats(r.Context(), shortURL, adminKey)
	if err != nil {
		h.renderAdminError(w, r, op, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.toShortlinkResponse(link))
}

func (h *shortlinkHandler) delete(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.shortlinkHandler.delete"

	shortURL := chi.URLParam(r, "shortURL")
	adminKey := chi.URLParam(r, "adminKey")

	if err := h.useCase.Delete(r.Context(), shortURL, adminKey); err != nil {
		h.renderAdminError(w, r, op, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.DeletedResponse(shortURL))
}

func (h *shortlinkHandler) renderAdminError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, entity.ErrUnauthorized) {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.UnauthorizedResponse)
		return
	}

	httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.ServerErrorResponse)
}

func handleTooManyRequests(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusTooManyRequests)
	render.JSON(w, r, response.TooManyRequestsResponse)
}
