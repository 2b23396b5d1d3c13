package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gcbaptista/note-search/api"
	"github.com/gcbaptista/note-search/config"
	"github.com/gcbaptista/note-search/internal/engine"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			settings, err := config.LoadWith(v, cfgFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), settings)
		},
	}

	cmd.Flags().String("port", "", "port to run the server on")
	cmd.Flags().String("storage", "", "note storage driver: memory or sqlite")
	cmd.Flags().String("data-dir", "", "directory for the note snapshot or database")
	_ = v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("storage.driver", cmd.Flags().Lookup("storage"))
	_ = v.BindPFlag("storage.data_dir", cmd.Flags().Lookup("data-dir"))
	return cmd
}

func serve(ctx context.Context, settings *config.Settings) error {
	logger := settings.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	eng, err := engine.NewEngine(settings, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("closing engine failed", "error", err)
		}
	}()

	if settings.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	api.SetupRoutes(router, eng, settings)

	server := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", settings.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
