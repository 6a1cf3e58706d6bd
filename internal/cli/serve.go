package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/refnetlabs/refnet/internal/api"
	"github.com/refnetlabs/refnet/pkg/cache"
	"github.com/refnetlabs/refnet/pkg/config"
	"github.com/refnetlabs/refnet/pkg/pipeline"
	"github.com/refnetlabs/refnet/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refnet HTTP API server",
		Long: `Run the refnet HTTP API server.

The server exposes analysis and simulation over JSON. Cache and report
store backends come from the config file:

  [server]
  addr = ":8080"

  [cache]
  backend = "redis"          # file, redis, or none
  redis_addr = "localhost:6379"

  [store]
  backend = "mongo"          # memory or mongo
  mongo_uri = "mongodb://localhost:27017"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServer wires up the backends and serves until the context is cancelled.
func (c *CLI) runServer(ctx context.Context, cfg config.Config) error {
	cch, err := c.serverCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cch.Close()

	st, err := c.serverStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(cch, nil, c.Logger)
	server := api.NewServer(runner, st, c.Logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// serverCache builds the cache backend named in the config.
func (c *CLI) serverCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("cache backend: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", cfg.Cache.RedisAddr)
		return rc, nil
	case "none":
		return cache.NewNullCache(), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// serverStore builds the report store named in the config.
func (c *CLI) serverStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Store.Backend == "mongo" {
		ms, err := store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("report store: %w", err)
		}
		c.Logger.Info("using mongo report store", "database", cfg.Store.MongoDatabase)
		return ms, nil
	}
	return store.NewMemoryStore(), nil
}
