package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// -----------------------------------------------------------------------------
// SignalServer
// -----------------------------------------------------------------------------

type SignalServer struct {
	Config   *models.MConfig
	Store    interfaces.ITickerStore
	Location *time.Location
	Logger   *logger.Logger
	engine   *gin.Engine
	http     *http.Server

	// WebSocket clients, owned by the hub goroutine
	clients     map[*Client]struct{}
	broadcast   chan *models.MLatestData // Buffered Queue
	register    chan *Client
	unregister  chan *Client
	resync      chan *Client
	done        chan struct{}
	connections atomic.Int64
	lastUpdate  atomic.Int64
	hubOnce     sync.Once
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewSignalServer(cfg *models.MConfig, store interfaces.ITickerStore, loc *time.Location, logger *logger.Logger) *SignalServer {
	// Set Gin mode
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &SignalServer{
		Config:   cfg,
		Store:    store,
		Location: loc,
		Logger:   logger,
		engine:   gin.New(),
		clients:  make(map[*Client]struct{}),
		// Queue size of 256 absorbs bursts of refresh cycles
		broadcast:  make(chan *models.MLatestData, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		resync:     make(chan *Client),
		done:       make(chan struct{}),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *SignalServer) setupRoutes() {
	// Trading endpoints
	s.engine.GET("/", s.getHome)
	s.engine.GET("/data/:query_time", s.getData)
	s.engine.POST("/add_ticker/:ticker", s.addTicker)
	s.engine.DELETE("/del_ticker/:ticker", s.deleteTicker)
	s.engine.GET("/report", s.getReport)

	// Operational endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/tickers", s.getTickers)
	s.engine.GET("/api/history/:ticker", s.getHistory)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for tests.
func (s *SignalServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------

func (s *SignalServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start runs the hub and serves HTTP until Shutdown is called.
func (s *SignalServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.http = &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	s.Logger.Info("Trading server started on %s, accepting requests from clients", addr)

	s.StartHub(ctx)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// StartHub starts the websocket hub; it stops when ctx is cancelled.
func (s *SignalServer) StartHub(ctx context.Context) {
	s.hubOnce.Do(func() { go s.runHub(ctx) })
}

// -----------------------------------------------------------------------------

func (s *SignalServer) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
