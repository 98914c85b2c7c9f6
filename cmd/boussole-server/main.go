// Package main implements the boussole HTTP server exposing geo-economic
// intelligence as a JSON API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/boussole-dz/boussole/pkg/config"
	"github.com/boussole-dz/boussole/pkg/demand"
	"github.com/boussole-dz/boussole/pkg/geo"
	"github.com/boussole-dz/boussole/pkg/geocache"
	"github.com/boussole-dz/boussole/pkg/googlemaps"
	"github.com/boussole-dz/boussole/pkg/timeseries"
	"github.com/boussole-dz/boussole/pkg/wilaya"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

var (
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	version = flag.Bool("version", false, "Show version")
)

// clientLimiter hands out one token bucket per client IP. Stale buckets
// are dropped once they have been idle longer than the eviction window.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	perSec  rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perSec float64, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*clientBucket),
		perSec:  rate.Limit(perSec),
		burst:   burst,
	}
}

func (cl *clientLimiter) allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	b, ok := cl.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(cl.perSec, cl.burst)}
		cl.clients[ip] = b
	}
	b.lastSeen = now

	for ip, b := range cl.clients {
		if now.Sub(b.lastSeen) > 10*time.Minute {
			delete(cl.clients, ip)
		}
	}
	return b.limiter.Allow()
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	if *version {
		fmt.Println("boussole server v1.0.0")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := parseLevel(cfg.Log.Level)
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	logger.Info("Server configuration",
		"addr", cfg.Server.Addr(),
		"db_driver", cfg.Database.Driver,
		"has_db_dsn", cfg.Database.DSN != "",
		"has_maps_key", cfg.Maps.APIKey != "",
		"cache_entries", cfg.Cache.MaxEntries)

	srv, cleanup, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	go func() {
		logger.Info("Server starting", "addr", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

func buildServer(cfg *config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	cleanup := func() {}

	var provider geo.Provider
	if cfg.Maps.APIKey != "" {
		provider = googlemaps.NewClient(cfg.Maps.APIKey, nil, logger)
	}

	store := geocache.NewOtterStore(cfg.Cache.MaxEntries, cfg.Cache.PlacesTTL)
	cache := geocache.New(store, logger,
		geocache.WithNamespaceTTL(geocache.NamespacePlaces, cfg.Cache.PlacesTTL),
		geocache.WithNamespaceTTL(geocache.NamespaceTraffic, cfg.Cache.TrafficTTL),
		geocache.WithNamespaceTTL(geocache.NamespaceScore, cfg.Cache.ScoreTTL),
		geocache.WithNamespaceTTL(geocache.NamespaceIntelligence, cfg.Cache.IntelligenceTTL),
	)
	geoSvc := geo.New(provider, cache, logger)

	var resolver wilaya.Resolver
	var series timeseries.Store
	if cfg.Database.DSN != "" {
		sqlResolver, err := wilaya.NewSQL(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open database: %w", err)
		}
		cleanup = func() {
			if err := sqlResolver.Close(); err != nil {
				logger.Error("Failed to close database", "error", err)
			}
		}
		resolver = sqlResolver
		series = timeseries.NewSQLFromDB(sqlResolver.DB())
	} else {
		resolver = wilaya.NewStatic()
	}

	s := &server{
		geo:     geoSvc,
		demand:  demand.New(geoSvc, resolver, series, logger),
		wilayas: resolver,
		limiter: newClientLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/v1/area", s.handleArea)
	mux.HandleFunc("GET /api/v1/sectors", s.handleSectors)
	mux.HandleFunc("GET /api/v1/demand/{sector}", s.handleDemand)
	mux.HandleFunc("GET /api/v1/opportunities", s.handleOpportunities)
	mux.HandleFunc("GET /api/v1/feasibility/{sector}", s.handleFeasibility)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.wrap(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
	return srv, cleanup, nil
}

type server struct {
	geo     *geo.Service
	demand  *demand.Service
	wilayas wilaya.Resolver
	limiter *clientLimiter
	logger  *slog.Logger
}

// wrap adds request IDs, panic recovery, security headers, and per-client
// rate limiting around every handler.
func (s *server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]

				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"client_ip", clientIP(r),
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

			if !s.limiter.allow(clientIP(r)) {
				s.logger.Warn("Rate limit exceeded",
					"request_id", requestID,
					"client_ip", clientIP(r),
					"path", r.URL.Path)
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
		}

		handler.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
