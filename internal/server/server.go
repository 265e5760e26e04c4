package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics     *services.Analytics
	router        chi.Router
	logger        *slog.Logger
	apiHandlers   *handlers.APIHandlers
	chartHandlers *handlers.ChartHandlers
	sseHandlers   *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:     analytics,
		router:        chi.NewRouter(),
		logger:        logger,
		apiHandlers:   handlers.NewAPIHandlers(analytics, logger),
		chartHandlers: handlers.NewChartHandlers(analytics, logger),
		sseHandlers:   handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	r := s.router

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errors.WriteError(w, s.logger, errors.NotFound("No such page"), observability.GetRequestID(req.Context()))
	})

	// Dashboard routes
	r.Get("/", templateHandlers.Dashboard)
	r.Get("/health", s.apiHandlers.HandleHealth)
	r.Get("/admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.apiHandlers.HandleCategories)
		r.Get("/regions", s.apiHandlers.HandleRegions)
		r.Get("/charts/{mode}", s.apiHandlers.HandleChart)
	})

	// Rendered charts and downloads
	r.Get("/charts/{mode}.{format}", s.chartHandlers.HandleImage)
	r.Get("/export/{mode}.xlsx", s.chartHandlers.HandleExport)

	// Datastar SSE endpoints
	r.Get("/sse/chart", s.sseHandlers.HandleChart)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
