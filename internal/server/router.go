// Package server exposes the extraction core and contact store over a JSON
// HTTP API.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/cardscan/internal/cache"
	"github.com/joseph-ayodele/cardscan/internal/card"
	"github.com/joseph-ayodele/cardscan/internal/export"
	"github.com/joseph-ayodele/cardscan/internal/repository"
)

type Server struct {
	parser   *card.Parser
	contacts repository.ContactRepository // nil when no database is configured
	exporter *export.Service              // nil when no database is configured
	cache    *cache.Cache                 // nil when redis is not configured
	cacheTTL time.Duration
	db       *sql.DB // nil when no database is configured, used for health only
	logger   *slog.Logger
}

func New(parser *card.Parser, contacts repository.ContactRepository, exporter *export.Service,
	c *cache.Cache, cacheTTL time.Duration, db *sql.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		parser:   parser,
		contacts: contacts,
		exporter: exporter,
		cache:    c,
		cacheTTL: cacheTTL,
		db:       db,
		logger:   logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/contacts", s.handleListContacts)
		r.Get("/contacts/export", s.handleExportContacts)
		r.Get("/contacts/{id}", s.handleGetContact)
	})

	return r
}
