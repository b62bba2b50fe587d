// Package httpapi exposes a read-only inspection API over the running
// engine and its recorder. Nothing here mutates account state.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"simbroker/internal/engine"
	"simbroker/internal/logger"
	"simbroker/internal/store/sqlite"

	"github.com/gin-gonic/gin"
)

type Server struct {
	addr   string
	eng    *engine.Engine
	store  *sqlite.Store
	router *gin.Engine
}

type Config struct {
	Addr   string
	Engine *engine.Engine
	Store  *sqlite.Store
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9991"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{addr: cfg.Addr, eng: cfg.Engine, store: cfg.Store, router: router}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	api.GET("/account", s.handleAccount)
	api.GET("/holdings", s.handleHoldings)
	api.GET("/orders", s.handleOrders)
	api.GET("/transactions", s.handleTransactions)
	api.GET("/fills", s.handleFills)
	api.GET("/equity", s.handleEquity)
}

// Start serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http api listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleAccount(c *gin.Context) {
	c.JSON(http.StatusOK, s.eng.Account())
}

func (s *Server) handleHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"holdings": s.eng.Holdings()})
}

func (s *Server) handleOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": s.eng.Orders()})
}

func (s *Server) handleTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"transactions": s.eng.Transactions()})
}

func (s *Server) handleFills(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no store configured"})
		return
	}
	limit := parseLimit(c)
	rows, err := s.store.ListFills(c.Request.Context(), c.Query("symbol"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fills": rows})
}

func (s *Server) handleEquity(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no store configured"})
		return
	}
	limit := parseLimit(c)
	rows, err := s.store.ListEquityPoints(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"equity": rows})
}

func parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
