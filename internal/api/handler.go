// Package api serves the hazard map REST API.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/hazardmap/internal/heatmap"
	"github.com/UnknownOlympus/hazardmap/internal/metrics"
	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// HazardService is the domain logic behind the API.
type HazardService interface {
	SubmitReport(ctx context.Context, report models.Report) (models.ReportOutcome, error)
	ListHazards(ctx context.Context, kind string) ([]models.Hazard, error)
	NearbyHazards(
		ctx context.Context, center models.Coordinates, radiusMeters float64, kind string,
	) ([]models.NearbyHazard, error)
	Heatmap(ctx context.Context) (heatmap.Layers, error)
	Search(ctx context.Context, query string) (*models.Coordinates, error)
}

// HazardHandler serves the hazard routes from a HazardService.
type HazardHandler struct {
	svc      HazardService
	log      *slog.Logger
	validate *validator.Validate
	trans    ut.Translator
}

// NewRouter builds the HTTP handler with every API route mounted under /api.
// allowedOrigins configures CORS for the map frontend.
func NewRouter(svc HazardService, m *metrics.Metrics, log *slog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(PromeHTTPMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	HazardRouter(r, svc, log)

	return r
}

// HazardRouter mounts the hazard routes on r.
func HazardRouter(r chi.Router, svc HazardService, log *slog.Logger) {
	handler := newHazardHandler(svc, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/hazards", handler.listHazards)
		r.Get("/hazards/nearby", handler.nearbyHazards)
		r.Get("/heatmap", handler.heatmap)
		r.Get("/geocode", handler.search)
		r.Post("/accidents", handler.submitAccident)
	})
}

func newHazardHandler(svc HazardService, log *slog.Logger) *HazardHandler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Error("failed to register validation translations", "error", err)
	}

	return &HazardHandler{svc: svc, log: log, validate: validate, trans: trans}
}

func (h *HazardHandler) submitAccident(w http.ResponseWriter, r *http.Request) {
	data := &AccidentRequest{}
	if err := render.Bind(r, data); err != nil {
		h.render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.validate.Struct(data); err != nil {
		h.render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	outcome, err := h.svc.SubmitReport(r.Context(), data.Report())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, outcome)
}

func (h *HazardHandler) listHazards(w http.ResponseWriter, r *http.Request) {
	hazards, err := h.svc.ListHazards(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, hazards)
}

func (h *HazardHandler) nearbyHazards(w http.ResponseWriter, r *http.Request) {
	data, err := parseNearbyRequest(r)
	if err != nil {
		h.render(w, r, ErrInvalidRequest(err))
		return
	}

	if err = h.validate.Struct(data); err != nil {
		h.render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	center := models.Coordinates{Latitude: data.Latitude, Longitude: data.Longitude}
	hazards, err := h.svc.NearbyHazards(r.Context(), center, data.Radius, data.Kind)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, hazards)
}

func (h *HazardHandler) heatmap(w http.ResponseWriter, r *http.Request) {
	layers, err := h.svc.Heatmap(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, layers)
}

func (h *HazardHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	coords, err := h.svc.Search(r.Context(), query)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, SearchResponse{Query: query, Latitude: coords.Latitude, Longitude: coords.Longitude})
}

func (h *HazardHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if getStatusCode(err) >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	h.render(w, r, ErrService(err))
}

func (h *HazardHandler) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		h.log.ErrorContext(r.Context(), "failed to render response", "error", err)
	}
}
