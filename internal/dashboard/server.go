// Package dashboard serves the design session over HTTP: a JSON API over
// the position manager and an SSE stream of its state.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/strand/internal/design"
	"github.com/zulandar/strand/internal/position"
	"github.com/zulandar/strand/internal/ring"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	DB       *gorm.DB
	Manager  *position.Manager
	Catalog  []ring.Bead
	Port     int
	Out      io.Writer
	Autosave *design.Autosaver // optional
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("dashboard: db is required")
	}
	if opts.Manager == nil {
		return fmt.Errorf("dashboard: manager is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(opts)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if opts.Autosave != nil {
		go opts.Autosave.Run(ctx)
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func newRouter(opts StartOpts) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	s := &server{db: opts.DB, mgr: opts.Manager, catalog: opts.Catalog}
	s.registerRoutes(router)
	return router
}
