package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gravitrone/testbuilder/internal/pool"
)

// Backend is the storage the server exposes.
type Backend interface {
	pool.DataSource
	pool.SaveSurface
	ItemsInCategory(ctx context.Context, c pool.CategoryID) ([]pool.Item, error)
	CountItems(ctx context.Context) (int, error)
	ListTests(ctx context.Context) ([]pool.SavedTest, error)
	GetTest(ctx context.Context, id string) (*pool.SavedTest, error)
}

// Options configures the HTTP surface.
type Options struct {
	// APIKey, when set, is required as a bearer token on every route except
	// /api/health.
	APIKey         string
	AllowedOrigins []string
	StoreName      string
	Timeout        time.Duration
	// Quiet disables the request logger.
	Quiet bool
}

// New builds the router.
func New(backend Backend, opts Options) http.Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	h := &handlers{backend: backend, storeName: opts.StoreName}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/health", h.health)
		ar.Group(func(pr chi.Router) {
			pr.Use(bearerAuth(opts.APIKey))
			pr.Get("/items", h.items)
			pr.Get("/catalog", h.catalog)
			pr.Get("/options", h.options)
			pr.Route("/tests", func(tr chi.Router) {
				tr.Get("/", h.listTests)
				tr.Post("/", h.saveTest)
				tr.Get("/{id}", h.getTest)
			})
		})
	})
	return r
}

func bearerAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeErr(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
