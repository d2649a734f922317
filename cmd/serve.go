package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rowanarora/personal-website/internal/config"
	"github.com/rowanarora/personal-website/internal/content"
	"github.com/rowanarora/personal-website/internal/github"
	"github.com/rowanarora/personal-website/internal/server"
	"github.com/rowanarora/personal-website/internal/session"
)

const shutdownTimeout = 10 * time.Second

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "port to listen on (default 8080, or $PORT)")
	cmd.Flags().String("content-file", "", "portfolio YAML file (default is the built-in content)")
	cmd.Flags().String("public-dir", "", "directory with the photo and resume (default ./public)")
}

// bindServeFlags binds the flags of the command actually running, since
// serve and the root command define the same ones.
func bindServeFlags(cmd *cobra.Command) error {
	for _, name := range []string{"port", "content-file", "public-dir"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(name, f); err != nil {
				return errors.Wrapf(err, "binding flag %s", name)
			}
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := bindServeFlags(cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log := newLogger(cfg, os.Stderr)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}

	visits, err := session.Open(cfg.SessionDSN)
	if err != nil {
		return err
	}
	defer visits.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go visits.RunCleanup(ctx, cfg.SessionTTL, log)

	srv, err := server.New(server.Config{
		Portfolio: site,
		Repos:     github.NewClient(cfg.GitHubAPI, cfg.GitHubOwner, nil),
		Filter:    cfg.Filter(),
		Visits:    visits,
		Logger:    log,
		PublicDir: cfg.PublicDir,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: the event streams stay open. Requests inherit
		// ctx so a shutdown ends them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr, "owner", cfg.GitHubOwner)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return errors.Wrap(err, "listen failed")
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "err", err)
		_ = httpSrv.Close()
	}
	log.Info("server stopped")
	return nil
}
