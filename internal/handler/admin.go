package handler

import (
	"net/http"
	"runtime"
	"time"

	"cuepack-api/internal/repository"
	"cuepack-api/internal/state"
	"cuepack-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store     *state.Store
	stateRepo repository.StateRepository
	dbType    string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(store *state.Store, stateRepo repository.StateRepository, dbType string) *AdminHandler {
	return &AdminHandler{
		store:     store,
		stateRepo: stateRepo,
		dbType:    dbType,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["db_type"] = h.dbType
	stats["revision"] = h.store.Revision()

	h.store.View(func(doc *state.Document) {
		stats["document"] = map[string]interface{}{
			"items":          len(doc.Inventory),
			"kits":           len(doc.Kits),
			"lists":          len(doc.Lists),
			"active_list_id": doc.ActiveListID,
		}
	})

	if h.stateRepo != nil {
		repoStats, err := h.stateRepo.Stats(ctx)
		if err == nil {
			repoStats["status"] = "connected"
			stats["state_db"] = repoStats
		} else {
			stats["state_db"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
