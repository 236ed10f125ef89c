package handler

import (
	"io"
	"net/http"

	"cuepack-api/internal/service"
	"cuepack-api/pkg/apierror"
	"cuepack-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// TransferHandler handles import/export HTTP requests.
type TransferHandler struct {
	transfer *service.TransferService
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(transfer *service.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// ExportCatalog handles GET /api/v1/transfer/catalog/export
func (h *TransferHandler) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.transfer.ExportCatalog(r.Context()))
}

// ImportCatalog handles POST /api/v1/transfer/catalog/import
func (h *TransferHandler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}
	defer r.Body.Close()

	summary, err := h.transfer.ImportCatalog(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, summary)
}

// ExportLists handles GET /api/v1/transfer/lists/export
func (h *TransferHandler) ExportLists(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.transfer.ExportLists(r.Context()))
}

// ImportLists handles POST /api/v1/transfer/lists/import
func (h *TransferHandler) ImportLists(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}
	defer r.Body.Close()

	imported, err := h.transfer.ImportLists(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, map[string]int{"imported": imported})
}

// Totals handles GET /api/v1/lists/{id}/totals
func (h *TransferHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.transfer.Totals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, totals)
}

// Rows handles GET /api/v1/lists/{id}/rows
func (h *TransferHandler) Rows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.transfer.Rows(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, rows)
}
