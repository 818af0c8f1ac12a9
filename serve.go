package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/judyrop/shop-api/config"
	"github.com/judyrop/shop-api/database"
	"github.com/judyrop/shop-api/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.IsLocal())
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db, cfg.Database.Driver, log)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	rc := RouterConfig{AllowedOrigins: cfg.Server.CORSAllowedOrigins}
	if cfg.Auth.OIDCIssuer != "" {
		verifier, err := newVerifier(ctx, cfg.Auth, log)
		if err != nil {
			return err
		}
		rc.Verifier = verifier
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      SetupRouter(db, log, rc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("server exited properly")
	return nil
}

func newVerifier(ctx context.Context, cfg config.AuthConfig, log zerolog.Logger) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC issuer %s: %w", cfg.OIDCIssuer, err)
	}
	log.Info().Str("issuer", cfg.OIDCIssuer).Msg("bearer authentication enabled for write routes")
	return provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}), nil
}
