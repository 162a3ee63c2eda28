// Package api provides the HTTP API server and handlers for the GPTDesk application.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gptdeskapp/gptdesk-server/internal/genai"
	"github.com/gptdeskapp/gptdesk-server/internal/service"
	"github.com/gptdeskapp/gptdesk-server/internal/store"
)

// Services groups the business services used by handlers.
type Services struct {
	Pin *service.PinService
}

// Generator produces model completions. Satisfied by *genai.Client.
type Generator interface {
	Generate(ctx context.Context, req genai.GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req genai.GenerateRequest, emit func(text string) error) error
}

// Options holds the handler-level knobs that come from configuration.
type Options struct {
	ChatModel   string
	VisionModel string
	CORSOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	store     store.Store
	generator Generator
	opts      Options
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, st store.Store, generator Generator, opts Options, logger *slog.Logger) *Server {
	if opts.ChatModel == "" {
		opts.ChatModel = genai.DefaultChatModel
	}
	if opts.VisionModel == "" {
		opts.VisionModel = genai.DefaultVisionModel
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		services:  services,
		store:     st,
		generator: generator,
		opts:      opts,
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("GPTDesk API", "1.0.0")
	// Keep response bodies free of $schema links.
	humaConfig.CreateHooks = nil
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes. Pin and health endpoints go
// through huma; the generation endpoints stream SSE, which huma cannot
// express, so they are mounted on the router directly.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerGPTSRoutes()

	s.router.Post("/chat", s.handleChat)
	s.router.Post("/vision", s.handleVision)
}
