// Package httpapi serves the JSON API and the live watchlist websocket used by
// the daemon.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
)

// WatchlistFeed is the part of the watchlist refresher the API needs
type WatchlistFeed interface {
	Latest() *watchServices.RefreshResult
	RefreshOnce(ctx context.Context) (*watchServices.RefreshResult, error)
	Subscribe(fn func(*watchServices.RefreshResult))
}

// Server is the HTTP front end of the daemon
type Server struct {
	cfg      config.HTTPConfig
	mediator mediator.Mediator
	filters  trading.Filters
	watch    WatchlistFeed
	hub      *Hub
	engine   *gin.Engine
}

// NewServer builds the router. watch may be nil, in which case the live
// watchlist endpoints answer 503.
func NewServer(cfg config.HTTPConfig, m mediator.Mediator, filters trading.Filters, watch WatchlistFeed) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		cfg:      cfg,
		mediator: m,
		filters:  filters,
		watch:    watch,
		hub:      NewHub(),
	}
	if watch != nil {
		watch.Subscribe(func(res *watchServices.RefreshResult) {
			s.hub.Publish(Message{Type: "watchlist", Data: res})
		})
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub returns the websocket hub
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if registry := metrics.GetRegistry(); registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	r.GET("/ws", s.hub.ServeWS)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/suggestions", s.getSuggestions)

		items := v1.Group("/items")
		items.GET("", s.searchItems)
		items.GET("/:id", s.getItem)
		items.GET("/:id/timeseries", s.getTimeseries)

		v1.GET("/limits", s.getLimits)
		v1.POST("/limits/events", s.recordPurchase)

		watchlist := v1.Group("/watchlist")
		watchlist.GET("", s.listWatchlist)
		watchlist.POST("", s.addWatch)
		watchlist.DELETE("/:id", s.removeWatch)
		watchlist.GET("/latest", s.latestRefresh)
		watchlist.POST("/refresh", s.refreshWatchlist)

		alerts := v1.Group("/alerts")
		alerts.GET("", s.listAlerts)
		alerts.POST("", s.createAlert)
		alerts.DELETE("/:id", s.deleteAlert)
		alerts.POST("/check", s.checkAlerts)

		flips := v1.Group("/flips")
		flips.GET("", s.listFlips)
		flips.POST("", s.logFlip)
		flips.GET("/summary", s.flipSummary)
	}
	return r
}

// Run starts the hub and listens on the configured address until ctx is
// cancelled, then shuts down within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
