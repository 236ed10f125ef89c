package router

import (
	"cuepack-api/internal/handler"
	"cuepack-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	CatalogHandler   *handler.CatalogHandler
	ListHandler      *handler.ListHandler
	TransferHandler  *handler.TransferHandler
	ChecklistHandler *handler.ChecklistHandler
	AdminHandler     *handler.AdminHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.CatalogHandler != nil {
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/items", cfg.CatalogHandler.ListItems)
				r.Post("/items", cfg.CatalogHandler.SaveItem)
				r.Put("/items/{id}", cfg.CatalogHandler.SaveItem)
				r.Delete("/items/{id}", cfg.CatalogHandler.DeleteItem)

				r.Get("/kits", cfg.CatalogHandler.ListKits)
				r.Post("/kits", cfg.CatalogHandler.SaveKit)
				r.Put("/kits/{id}", cfg.CatalogHandler.SaveKit)
				r.Delete("/kits/{id}", cfg.CatalogHandler.DeleteKit)

				r.Get("/search", cfg.CatalogHandler.Search)
			})
		}

		if cfg.ListHandler != nil {
			r.Get("/active-list", cfg.ListHandler.GetActiveList)
			r.Put("/active-list", cfg.ListHandler.SetActiveList)

			r.Route("/lists", func(r chi.Router) {
				r.Get("/", cfg.ListHandler.GetLists)
				r.Post("/", cfg.ListHandler.CreateList)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.ListHandler.GetList)
					r.Put("/", cfg.ListHandler.UpdateList)
					r.Delete("/", cfg.ListHandler.DeleteList)

					r.Post("/sections", cfg.ListHandler.AddSection)
					r.Put("/sections/{sectionID}", cfg.ListHandler.RenameSection)
					r.Delete("/sections/{sectionID}", cfg.ListHandler.DeleteSection)

					r.Post("/sections/{sectionID}/components", cfg.ListHandler.AddComponent)
					r.Post("/sections/{sectionID}/paste", cfg.ListHandler.Paste)
					r.Post("/sections/{sectionID}/reorder", cfg.ListHandler.Reorder)

					r.Put("/components/{uniqueID}", cfg.ListHandler.UpdateComponent)
					r.Delete("/components/{uniqueID}", cfg.ListHandler.DeleteComponent)
					r.Post("/components/{uniqueID}/duplicate", cfg.ListHandler.DuplicateComponent)
					r.Post("/components/delete", cfg.ListHandler.BulkDelete)

					r.Post("/clipboard/copy", cfg.ListHandler.Copy)
					r.Post("/clipboard/cut", cfg.ListHandler.Cut)

					if cfg.TransferHandler != nil {
						r.Get("/totals", cfg.TransferHandler.Totals)
						r.Get("/rows", cfg.TransferHandler.Rows)
					}
				})
			})
		}

		if cfg.TransferHandler != nil {
			r.Route("/transfer", func(r chi.Router) {
				r.Get("/catalog/export", cfg.TransferHandler.ExportCatalog)
				r.Post("/catalog/import", cfg.TransferHandler.ImportCatalog)
				r.Get("/lists/export", cfg.TransferHandler.ExportLists)
				r.Post("/lists/import", cfg.TransferHandler.ImportLists)
			})
		}

		if cfg.ChecklistHandler != nil {
			r.Get("/checklists", cfg.ChecklistHandler.GetChecklists)
			r.Put("/checklists", cfg.ChecklistHandler.PutChecklists)
			r.Get("/checklist-templates", cfg.ChecklistHandler.GetChecklistTemplates)
			r.Put("/checklist-templates", cfg.ChecklistHandler.PutChecklistTemplates)
		}

		if cfg.AdminHandler != nil {
			r.Get("/admin/stats", cfg.AdminHandler.GetStats)
		}
	})

	return r
}
