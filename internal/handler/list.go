package handler

import (
	"encoding/json"
	"net/http"

	"cuepack-api/internal/model"
	"cuepack-api/internal/service"
	"cuepack-api/pkg/apierror"
	"cuepack-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ListHandler handles packing-list HTTP requests.
type ListHandler struct {
	lists *service.ListService
}

// NewListHandler creates a new list handler.
func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// GetLists handles GET /api/v1/lists
func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.lists.Lists(r.Context()))
}

// GetList handles GET /api/v1/lists/{id}
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, list)
}

// CreateList handles POST /api/v1/lists
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var list model.PackingList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	created, err := h.lists.CreateList(r.Context(), list)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, created)
}

// UpdateList handles PUT /api/v1/lists/{id}
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var meta model.PackingList
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	updated, err := h.lists.UpdateList(r.Context(), chi.URLParam(r, "id"), meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, updated)
}

// DeleteList handles DELETE /api/v1/lists/{id}
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.DeleteList(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// GetActiveList handles GET /api/v1/active-list
func (h *ListHandler) GetActiveList(w http.ResponseWriter, r *http.Request) {
	list, ok := h.lists.Active(r.Context())
	if !ok {
		response.OK(w, nil)
		return
	}
	response.OK(w, list)
}

// SetActiveList handles PUT /api/v1/active-list
func (h *ListHandler) SetActiveList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListID string `json:"listId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	if err := h.lists.SetActive(r.Context(), req.ListID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, map[string]string{"activeListId": req.ListID})
}

// AddSection handles POST /api/v1/lists/{id}/sections
func (h *ListHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	section, err := h.lists.AddSection(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, section)
}

// RenameSection handles PUT /api/v1/lists/{id}/sections/{sectionID}
func (h *ListHandler) RenameSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	err := h.lists.RenameSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, nil)
}

// DeleteSection handles DELETE /api/v1/lists/{id}/sections/{sectionID}
func (h *ListHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	err := h.lists.DeleteSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// AddComponent handles POST /api/v1/lists/{id}/sections/{sectionID}/components
func (h *ListHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type            model.ComponentType `json:"type"`
		ReferenceID     string              `json:"referenceId"`
		ReplaceUniqueID string              `json:"replaceUniqueId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	comp, err := h.lists.AddComponent(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"),
		req.Type, req.ReferenceID, req.ReplaceUniqueID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, comp)
}

// UpdateComponent handles PUT /api/v1/lists/{id}/components/{uniqueID}
func (h *ListHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int    `json:"quantity,omitempty"`
		Notes    *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	listID := chi.URLParam(r, "id")
	uniqueID := chi.URLParam(r, "uniqueID")

	var comp model.ListComponent
	var err error
	if req.Quantity != nil {
		comp, err = h.lists.UpdateQuantity(r.Context(), listID, uniqueID, *req.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Notes != nil {
		comp, err = h.lists.UpdateNotes(r.Context(), listID, uniqueID, *req.Notes)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	response.OK(w, comp)
}

// DeleteComponent handles DELETE /api/v1/lists/{id}/components/{uniqueID}
func (h *ListHandler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	err := h.lists.RemoveComponent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "uniqueID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// DuplicateComponent handles POST /api/v1/lists/{id}/components/{uniqueID}/duplicate
func (h *ListHandler) DuplicateComponent(w http.ResponseWriter, r *http.Request) {
	comp, err := h.lists.DuplicateComponent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "uniqueID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, comp)
}

type selectionRequest struct {
	Selection []string `json:"selection"`
}

// Copy handles POST /api/v1/lists/{id}/clipboard/copy
func (h *ListHandler) Copy(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	copied, err := h.lists.Copy(r.Context(), chi.URLParam(r, "id"), req.Selection)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, map[string]int{"copied": copied})
}

// Cut handles POST /api/v1/lists/{id}/clipboard/cut
func (h *ListHandler) Cut(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	cut, err := h.lists.Cut(r.Context(), chi.URLParam(r, "id"), req.Selection)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, map[string]int{"cut": cut})
}

// Paste handles POST /api/v1/lists/{id}/sections/{sectionID}/paste
func (h *ListHandler) Paste(w http.ResponseWriter, r *http.Request) {
	pasted, err := h.lists.Paste(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, pasted)
}

// BulkDelete handles POST /api/v1/lists/{id}/components/delete
func (h *ListHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	removed, err := h.lists.BulkDelete(r.Context(), chi.URLParam(r, "id"), req.Selection)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, map[string]int{"removed": removed})
}

// Reorder handles POST /api/v1/lists/{id}/sections/{sectionID}/reorder
func (h *ListHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DraggedID string   `json:"draggedId"`
		Selection []string `json:"selection"`
		TargetID  string   `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	err := h.lists.Reorder(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"),
		req.DraggedID, req.Selection, req.TargetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, nil)
}
