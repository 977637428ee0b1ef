package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdraw/internal/server"
	"github.com/matzehuels/stackdraw/pkg/cache"
	"github.com/matzehuels/stackdraw/pkg/config"
	"github.com/matzehuels/stackdraw/pkg/pipeline"
	"github.com/matzehuels/stackdraw/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendering HTTP API",
		Long: `Serve the rendering HTTP API until interrupted.

Settings come from STACKDRAW_* environment variables:

  STACKDRAW_ADDR              listen address (default :8080)
  STACKDRAW_REDIS_URL         Redis artifact cache (default: file cache)
  STACKDRAW_CACHE_DIR         file cache directory
  STACKDRAW_CACHE_TTL         artifact lifetime (default 24h)
  STACKDRAW_MONGO_URI         MongoDB document store
  STACKDRAW_MONGO_DATABASE    MongoDB database (default stackdraw)
  STACKDRAW_STORE_DIR         file document store (default: in memory)
  STACKDRAW_MAX_BODY_BYTES    request body limit (default 1 MiB)
  STACKDRAW_RENDER_TIMEOUT    per-request render limit (default 30s)
  STACKDRAW_SHUTDOWN_TIMEOUT  graceful shutdown limit (default 10s)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides STACKDRAW_ADDR)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Server) error {
	logger := loggerFromContext(ctx)

	ch, err := openServerCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, nil, logger)
	defer runner.Close()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(runner, st, logger, server.Options{
		MaxBodyBytes:  cfg.MaxBodyBytes,
		RenderTimeout: cfg.RenderTimeout,
		CacheTTL:      cfg.CacheTTL,
	})
	return srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout)
}

// openServerCache picks Redis when configured, the file cache otherwise.
func openServerCache(ctx context.Context, cfg config.Server, logger *log.Logger) (cache.Cache, error) {
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("artifact cache", "backend", "redis")
		return rc, nil
	}
	fc, err := cache.NewFileCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	logger.Info("artifact cache", "backend", "file", "dir", fc.Dir())
	return fc, nil
}

// openStore picks MongoDB, then a directory, then memory.
func openStore(ctx context.Context, cfg config.Server, logger *log.Logger) (store.Store, error) {
	switch {
	case cfg.MongoURI != "":
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info("document store", "backend", "mongo", "database", cfg.MongoDatabase)
		return ms, nil
	case cfg.StoreDir != "":
		fs, err := store.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		logger.Info("document store", "backend", "file", "dir", cfg.StoreDir)
		return fs, nil
	}
	logger.Warn("document store is in memory; stored diagrams are lost on exit")
	return store.NewMemoryStore(), nil
}
