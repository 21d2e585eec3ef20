package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/calebowu/ghostwriter/internal/api/handlers"
	appMiddleware "github.com/calebowu/ghostwriter/internal/api/middlewares"
	"github.com/calebowu/ghostwriter/internal/config"
	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/core/demo"
	"github.com/calebowu/ghostwriter/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, profiles *services.ProfileService, drafts *services.DraftService, demoMgr *demo.Manager, log zerolog.Logger) *Server {
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(profiles)
	postHandler := handlers.NewPostHandler(drafts)
	demoHandler := handlers.NewDemoHandler(demoMgr)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"service":"ghostwriter","status":"ok"}`))
		})
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		// public endpoints
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)

		api.Route("/demo", func(d chi.Router) {
			d.Get("/sample-profile", demoHandler.SampleProfile)
			d.Post("/enter", demoHandler.Enter)
			d.Route("/{session_id}", func(s chi.Router) {
				s.Post("/analyze-voice", demoHandler.AnalyzeVoice)
				s.Post("/generate", demoHandler.Generate)
				s.Get("/attempts", demoHandler.Attempts)
				s.Post("/owner-mode", demoHandler.OwnerMode)
				s.Post("/reset", demoHandler.Reset)
				s.Delete("/", demoHandler.Exit)
			})
		})

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(cfg.JWTSecret))

			protected.Get("/auth/me", authHandler.Me)

			protected.Post("/voice-profile/analyze", profileHandler.Analyze)
			protected.Post("/voice-profile/analyze-file", profileHandler.AnalyzeFile)
			protected.Get("/voice-profile", profileHandler.Get)
			protected.Put("/voice-profile/settings", profileHandler.UpdateSettings)

			protected.Post("/posts/generate", postHandler.Generate)
			protected.Get("/posts", postHandler.List)
			protected.Put("/posts/{post_id}", postHandler.Update)
			protected.Delete("/posts/{post_id}", postHandler.Delete)
			protected.Post("/posts/{post_id}/regenerate", postHandler.Regenerate)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
