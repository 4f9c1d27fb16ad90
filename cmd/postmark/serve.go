package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postmark/internal/httpserver"
	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/linkpreview"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the data store HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	store, err := storage.NewSQLiteStorage(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()
	log.Info("database opened", logger.String("path", cfg.Server.DBPath))

	var cache linkpreview.Cache
	if cfg.Server.RedisAddr != "" {
		rdb, err := linkpreview.ConnectRedis(ctx, cfg.Server.RedisAddr, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("failed to close redis", logger.Error(err))
			}
		}()
		cache = linkpreview.NewRedisCache(rdb)
	} else {
		log.Info("redis not configured, previews are not cached")
	}

	fetcher := linkpreview.NewFetcher(linkpreview.FetcherParams{
		Timeout: cfg.Server.PreviewTimeout,
		Logger:  log,
	})

	server := httpserver.New(addr, deps.Deps{
		Logger:      log,
		StartTime:   time.Now(),
		Version:     version,
		Storage:     store,
		Previews:    linkpreview.NewService(fetcher, cache, cfg.Server.PreviewTTL, log),
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	return nil
}
