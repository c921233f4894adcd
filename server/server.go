// Package server exposes the movie catalog over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"filmoteca/config"
	"filmoteca/imdb"
	"filmoteca/importer"
	"filmoteca/store"
)

// Catalog is the slice of the catalog client the handlers need.
type Catalog interface {
	Search(ctx context.Context, query string) ([]imdb.SearchResult, error)
	GetImages(ctx context.Context, imdbID string) ([]imdb.Image, error)
	GetVideos(ctx context.Context, imdbID string) ([]imdb.Video, error)
}

// Server wires the store, catalog client, and importer behind the REST API.
type Server struct {
	cfg      config.ServerConfig
	store    *store.Store
	catalog  Catalog
	importer *importer.Importer
	logger   zerolog.Logger
	limiter  *rate.Limiter
}

// New creates a Server. A zero rate_limit_rps disables the rate limiter.
func New(cfg config.ServerConfig, st *store.Store, catalog Catalog, imp *importer.Importer, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		catalog:  catalog,
		importer: imp,
		logger:   logger,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, "resource not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.HandlerFunc(http.MethodGet, "/health", s.handleHealth)

	router.HandlerFunc(http.MethodGet, "/movies", s.handleListMovies)
	router.HandlerFunc(http.MethodPost, "/movies", s.handleCreateMovie)
	router.HandlerFunc(http.MethodGet, "/movies/:id", s.handleGetMovie)
	router.HandlerFunc(http.MethodPut, "/movies/:id", s.handleUpdateMovie)
	router.HandlerFunc(http.MethodDelete, "/movies/:id", s.handleDeleteMovie)

	router.HandlerFunc(http.MethodGet, "/lists", s.handleListLists)
	router.HandlerFunc(http.MethodPost, "/lists", s.handleCreateList)
	router.HandlerFunc(http.MethodGet, "/lists/:id", s.handleGetList)
	router.HandlerFunc(http.MethodPut, "/lists/:id", s.handleUpdateList)
	router.HandlerFunc(http.MethodDelete, "/lists/:id", s.handleDeleteList)
	router.HandlerFunc(http.MethodGet, "/lists/:id/movies", s.handleMoviesInList)
	router.HandlerFunc(http.MethodPost, "/lists/:id/movies/:movie_id", s.handleAddMovieToList)
	router.HandlerFunc(http.MethodDelete, "/lists/:id/movies/:movie_id", s.handleRemoveMovieFromList)

	router.HandlerFunc(http.MethodGet, "/imdb/search", s.handleSearch)
	router.HandlerFunc(http.MethodPost, "/imdb/import", s.handleImport)
	router.HandlerFunc(http.MethodGet, "/imdb/images/:id", s.handleImages)
	router.HandlerFunc(http.MethodGet, "/imdb/videos/:id", s.handleVideos)

	return s.recoverPanic(s.rateLimit(s.enableCORS(s.logRequests(router))))
}

// Run starts the server and blocks until shutdown. SIGINT/SIGTERM (or a
// cancelled context) trigger a graceful shutdown that drains in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			s.logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
		case <-ctx.Done():
			s.logger.Info().Msg("Shutting down server")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", srv.Addr).Msg("Starting server")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
