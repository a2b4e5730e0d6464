// Package rpc exposes the vault engine over HTTP. Mutating operations are
// POST endpoints taking small JSON bodies; queries are GETs keyed by hex
// identifiers in the path. The server owns no business rules: it decodes,
// delegates to the engine, and maps engine errors onto status codes.
package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dropletvault/native/bucket"
	"dropletvault/observability/metrics"
	"dropletvault/state"
)

const requestLimit = 1 << 20 // 1 MiB

// Server is the HTTP front of the vault daemon.
type Server struct {
	engine   *bucket.Engine
	registry *state.MetadataRegistry
	logger   *slog.Logger
	metrics  *metrics.VaultMetrics
	http     *http.Server
}

// NewServer builds the HTTP server for the engine. The registry is optional;
// without one the metadata registration endpoint is unavailable.
func NewServer(engine *bucket.Engine, registry *state.MetadataRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:   engine,
		registry: registry,
		logger:   logger,
		metrics:  metrics.Vault(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)

	r.Post("/v1/items/metadata", s.registerMetadata)

	r.Route("/v1/buckets", func(br chi.Router) {
		br.Post("/", s.createBucket)
		br.Get("/{mint}", s.getBucket)
		br.Post("/{mint}/deposit", s.deposit)
		br.Post("/{mint}/redeem", s.redeem)
		br.Post("/{mint}/swap", s.swap)
		br.Post("/{mint}/lock", s.lock)
		br.Post("/{mint}/unlock", s.unlock)
		br.Post("/{mint}/liquidate", s.liquidate)
		br.Get("/{mint}/lockers/{item}", s.getLocker)
		br.Get("/{mint}/quote", s.quoteLock)

		br.Post("/{mint}/locking/enabled", s.setLockingEnabled)
		br.Post("/{mint}/locking/params", s.updateLockingParams)
		br.Post("/{mint}/collection", s.updateCollection)
		br.Post("/{mint}/staking/enabled", s.setStakingEnabled)
		br.Post("/{mint}/staking/params", s.updateStakingParams)
		br.Post("/{mint}/staking/stake", s.stakeItem)
		br.Post("/{mint}/staking/unstake", s.unstakeItem)
		br.Post("/{mint}/revenue/partners", s.updateRevenuePartners)
		br.Post("/{mint}/revenue/distribute", s.distributeRevenue)
		br.Post("/{mint}/claim", s.claimBalance)
	})

	s.http = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Listen serves on the given address until the context is cancelled.
func (s *Server) Listen(ctx context.Context, address string) error {
	s.http.Addr = address
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
