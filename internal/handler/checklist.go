package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"cuepack-api/internal/state"
	"cuepack-api/pkg/apierror"
	"cuepack-api/pkg/response"
)

// ChecklistHandler serves the two auxiliary checklist documents. They
// belong to a separate feature; this service persists them opaquely next to
// the core state and never interprets them.
type ChecklistHandler struct {
	store *state.Store
}

// NewChecklistHandler creates a new checklist handler.
func NewChecklistHandler(store *state.Store) *ChecklistHandler {
	return &ChecklistHandler{store: store}
}

// GetChecklists handles GET /api/v1/checklists
func (h *ChecklistHandler) GetChecklists(w http.ResponseWriter, r *http.Request) {
	h.getRaw(w, func(doc *state.Document) json.RawMessage { return doc.Checklists })
}

// PutChecklists handles PUT /api/v1/checklists
func (h *ChecklistHandler) PutChecklists(w http.ResponseWriter, r *http.Request) {
	h.putRaw(w, r, state.KeyChecklists, func(doc *state.Document, raw json.RawMessage) {
		doc.Checklists = raw
	})
}

// GetChecklistTemplates handles GET /api/v1/checklist-templates
func (h *ChecklistHandler) GetChecklistTemplates(w http.ResponseWriter, r *http.Request) {
	h.getRaw(w, func(doc *state.Document) json.RawMessage { return doc.ChecklistTemplates })
}

// PutChecklistTemplates handles PUT /api/v1/checklist-templates
func (h *ChecklistHandler) PutChecklistTemplates(w http.ResponseWriter, r *http.Request) {
	h.putRaw(w, r, state.KeyChecklistTemplates, func(doc *state.Document, raw json.RawMessage) {
		doc.ChecklistTemplates = raw
	})
}

func (h *ChecklistHandler) getRaw(w http.ResponseWriter, pick func(doc *state.Document) json.RawMessage) {
	var raw json.RawMessage
	h.store.View(func(doc *state.Document) {
		raw = append(json.RawMessage(nil), pick(doc)...)
	})
	if len(raw) == 0 {
		raw = json.RawMessage("[]")
	}
	response.OK(w, raw)
}

func (h *ChecklistHandler) putRaw(w http.ResponseWriter, r *http.Request, key string, assign func(doc *state.Document, raw json.RawMessage)) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}
	defer r.Body.Close()

	if !json.Valid(body) {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	err = h.store.Update(r.Context(), func(doc *state.Document) ([]string, error) {
		assign(doc, append(json.RawMessage(nil), body...))
		return []string{key}, nil
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, nil)
}
