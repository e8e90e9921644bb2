package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanyardlab/badgeforge/internal/server"
	"github.com/lanyardlab/badgeforge/pkg/cache"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
)

// shutdownGrace is how long in-flight requests get to finish on SIGTERM.
const shutdownGrace = 10 * time.Second

// serveOpts holds the command-line flags for the serve command. Zero values
// fall back to the config file, then to built-in defaults.
type serveOpts struct {
	addr      string
	store     string // "file" or "mongo"
	dataDir   string
	mongoURI  string
	mongoDB   string
	cacheKind string // "file", "redis", or "none"
	redisAddr string
}

// serveCommand creates the serve command running the badge HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the badge HTTP API",
		Long: `Run the badge HTTP API.

The server stores event and attendee records and composes badges on demand:

  PUT  /v1/events/{eventID}
  PUT  /v1/events/{eventID}/attendees/{attendeeID}
  POST /v1/events/{eventID}/attendees/{attendeeID}/badge
  POST /v1/badges                 (inline records, no storage)
  GET  /healthz

Records live in a local directory by default; --store mongo switches to
MongoDB. Layout caching uses the local file cache unless --cache redis
points at a Redis instance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyServerConfig(&opts)
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "record store: file (default), mongo")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory for the file store (default ./badgeforge-data)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-database", "", "MongoDB database name (default badgeforge)")
	cmd.Flags().StringVar(&opts.cacheKind, "cache", "", "layout cache: file (default), redis, none")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for --cache redis")

	return cmd
}

// applyServerConfig fills unset flags from the config file, then applies
// built-in defaults.
func (c *CLI) applyServerConfig(opts *serveOpts) {
	var cfg ServerConfig
	if c.config != nil {
		cfg = c.config.Server
	}
	fill := func(dst *string, fromConfig, fallback string) {
		if *dst == "" {
			*dst = fromConfig
		}
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&opts.addr, cfg.Addr, ":8080")
	fill(&opts.store, cfg.Store, "file")
	fill(&opts.dataDir, cfg.DataDir, "badgeforge-data")
	fill(&opts.mongoURI, cfg.MongoURI, "")
	fill(&opts.mongoDB, cfg.MongoDatabase, appName)
	fill(&opts.cacheKind, cfg.Cache, "file")
	fill(&opts.redisAddr, cfg.RedisAddr, "localhost:6379")
}

// runServe wires the store, cache, and runner together and serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	store, err := c.newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	layoutCache, err := c.newServerCache(ctx, opts)
	if err != nil {
		return err
	}
	defer layoutCache.Close()

	reg, err := c.newRegistry()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(layoutCache, nil, reg, c.Logger)
	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(runner, store, c.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("badge API listening", "addr", opts.addr, "store", opts.store, "cache", opts.cacheKind)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// newStore builds the record store named by --store.
func (c *CLI) newStore(ctx context.Context, opts *serveOpts) (server.Store, error) {
	switch opts.store {
	case "file":
		return server.NewFileStore(opts.dataDir)
	case "mongo":
		if opts.mongoURI == "" {
			return nil, fmt.Errorf("--store mongo requires --mongo-uri")
		}
		return server.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	default:
		return nil, fmt.Errorf("unknown store %q (must be 'file' or 'mongo')", opts.store)
	}
}

// newServerCache builds the layout cache named by --cache.
func (c *CLI) newServerCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	switch opts.cacheKind {
	case "file":
		return c.newCache(false)
	case "redis":
		return cache.NewRedisCache(ctx, opts.redisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache %q (must be 'file', 'redis', or 'none')", opts.cacheKind)
	}
}
