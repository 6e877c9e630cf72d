// Package app wires configuration, storage, the admin gate, and the HTTP
// engine into a runnable server. All wiring happens in constructors; there
// are no package-level singletons.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/adminlink"
	"github.com/novaray/panel/internal/config"
	"github.com/novaray/panel/internal/db"
	panelhttp "github.com/novaray/panel/internal/http"
	"github.com/novaray/panel/internal/http/api/panel"
	"github.com/novaray/panel/internal/ratelimit"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 10 * time.Second

// Server is the fully wired panel instance.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
}

// New builds a Server from an open database connection, a loaded admin gate,
// and resolved server configuration.
func New(conn *gorm.DB, gate *adminlink.Gate, cfg config.ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(panelhttp.AccessLogMiddleware())
	engine.Use(panelhttp.CORSMiddleware(cfg.AllowedOrigins))
	engine.Use(panelhttp.TrustedHostMiddleware(cfg.AllowedHosts()))
	engine.Use(panelhttp.RateLimitMiddleware(ratelimit.NewManager(cfg.RateLimit, nil, nil)))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Management Panel API.",
			"status":  "Running",
		})
	})

	panel.RegisterPanelRoutes(engine, conn, gate, cfg)
	return &Server{cfg: cfg, engine: engine}
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port <= 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("panel started on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("panel shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		<-errCh
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// RunServer opens the database, migrates, loads the admin gate, and serves
// the panel until the context is cancelled.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return errDSN
	}
	serverCfg, errServerCfg := config.LoadServerConfig(configPath)
	if errServerCfg != nil {
		return errServerCfg
	}
	if serverCfg.Port <= 0 {
		serverCfg.Port = defaultPort
	}

	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	gate, errGate := adminlink.NewGate(conn)
	if errGate != nil {
		return errGate
	}
	if !gate.Issued() {
		log.Warn("admin link not issued yet, run with -issue-admin-link")
	}

	return New(conn, gate, serverCfg).Run(ctx)
}

// IssueAdminLink provisions the one-time admin link and returns it. Install
// tooling invokes this once per installation.
func IssueAdminLink(cfg config.AppConfig) (string, error) {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return "", errDSN
	}
	serverCfg, errServerCfg := config.LoadServerConfig(configPath)
	if errServerCfg != nil {
		return "", errServerCfg
	}
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return "", errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return "", errMigrate
	}
	return adminlink.Issue(conn, serverCfg.ServerIP)
}
