package handler

import (
	"net/http"
	"strconv"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler handles catalogue HTTP requests.
type CatalogHandler struct {
	service service.CatalogService
	effects EffectSource
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(service service.CatalogService, effects EffectSource, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		effects: effects,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// GetAll handles GET /api/catalog with pagination and an optional category.
func (h *CatalogHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, r, model.NewDomainError(model.ErrCodeValidation, "invalid limit parameter"), h.effects, h.logger)
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, model.NewDomainError(model.ErrCodeValidation, "invalid offset parameter"), h.effects, h.logger)
		return
	}

	var products []model.Product
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.service.GetByCategory(r.Context(), category, limit, offset)
	} else {
		products, err = h.service.GetAll(r.Context(), limit, offset)
	}
	if err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	respond(w, r, http.StatusOK, products, h.effects)
}

// GetByID handles GET /api/catalog/{id}.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	respond(w, r, http.StatusOK, product, h.effects)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
