package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cuepack-api/internal/model"
	"cuepack-api/internal/service"
	"cuepack-api/pkg/apierror"
	"cuepack-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler handles inventory and kit HTTP requests.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListItems handles GET /api/v1/catalog/items?q=&category=
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	picker := r.URL.Query().Get("scope") == "picker"

	items := h.catalog.SearchItems(r.Context(), query, category, picker)
	response.OK(w, items)
}

// SaveItem handles POST /api/v1/catalog/items and PUT /api/v1/catalog/items/{id}
func (h *CatalogHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var item model.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		item.ID = id
	}

	saved, err := h.catalog.SaveItem(r.Context(), item)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, saved)
}

// DeleteItem handles DELETE /api/v1/catalog/items/{id}
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// ListKits handles GET /api/v1/catalog/kits?q=&category=
func (h *CatalogHandler) ListKits(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	picker := r.URL.Query().Get("scope") == "picker"

	kits := h.catalog.SearchKits(r.Context(), query, category, picker)
	response.OK(w, kits)
}

// SaveKit handles POST /api/v1/catalog/kits and PUT /api/v1/catalog/kits/{id}
func (h *CatalogHandler) SaveKit(w http.ResponseWriter, r *http.Request) {
	var kit model.Kit
	if err := json.NewDecoder(r.Body).Decode(&kit); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		kit.ID = id
	}

	saved, err := h.catalog.SaveKit(r.Context(), kit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, saved)
}

// DeleteKit handles DELETE /api/v1/catalog/kits/{id}
func (h *CatalogHandler) DeleteKit(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteKit(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// Search handles GET /api/v1/catalog/search?q=&category= — the list-builder
// picker, ranking items and kits with the picker weight variant.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	response.OK(w, map[string]interface{}{
		"items": h.catalog.SearchItems(r.Context(), query, category, true),
		"kits":  h.catalog.SearchKits(r.Context(), query, category, true),
	})
}

// writeServiceError maps engine errors onto API errors.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Error(w, apierror.NotFound(""))
	case errors.Is(err, service.ErrBadFormat):
		response.Error(w, apierror.BadRequest("the file is not a valid import file"))
	default:
		response.Error(w, err)
	}
}
