package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{"Authorization", traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if h.cfg.RateLimit.RequestsPerMinute > 0 {
		router.Use(httprate.LimitByIP(h.cfg.RateLimit.RequestsPerMinute, time.Minute))
	}
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	router.Get("/version", h.getServerVersion)
	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	// routes without authorization
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(h.limitForgotPassword).Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password", h.resetPassword)
	})

	// catalog, personalised when a session is present
	router.Group(func(r chi.Router) {
		r.Use(h.optionalAuth)
		r.Get("/movies/popular", h.popularMovies)
		r.Get("/movies/trending", h.trendingMovies)
		r.Get("/movies/top-rated", h.topRatedMovies)
		r.Get("/movies/now-playing", h.nowPlayingMovies)
		r.Get("/movies/{id}", h.movieDetails)
		r.Get("/movies/{id}/similar", h.similarMovies)
		r.Get("/search", h.search)
	})

	// API routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/watchlist", h.addToWatchlist)
		r.Delete("/watchlist", h.removeFromWatchlist)
		r.Get("/watchlist/check", h.checkWatchlist)
	})

	// page routes send anonymous callers to the sign-in page
	router.Group(func(r chi.Router) {
		r.Use(h.authOrRedirect)
		r.Get("/watchlist", h.listWatchlist)
		r.Get("/watch/{id}", h.watch)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
