package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/structlab/structlab/internal/config"
	"github.com/structlab/structlab/internal/httpapi"
	"github.com/structlab/structlab/internal/metrics"
	"github.com/structlab/structlab/pkg/archive"
	"github.com/structlab/structlab/pkg/layout"
	"github.com/structlab/structlab/pkg/registry"
	"github.com/structlab/structlab/pkg/session"
)

// serveCommand creates the serve command that runs the sandbox HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sandbox HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (c *CLI) serve(ctx context.Context, cfg config.Config) error {
	metrics.Install(prometheus.DefaultRegisterer)

	reg, err := c.newRegistry(ctx, cfg.Registry)
	if err != nil {
		return err
	}
	defer reg.Close()

	arch, err := c.newArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer arch.Close(context.Background())

	sess := session.New(session.Options{
		Registry: reg,
		Layout: &layout.Options{
			Width:      cfg.Layout.Width,
			Height:     cfg.Layout.Height,
			Margin:     cfg.Layout.Margin,
			Iterations: cfg.Layout.Iterations,
			Step:       cfg.Layout.Step,
			Damping:    cfg.Layout.Damping,
			Seed:       cfg.Layout.Seed,
		},
		Logger: c.Logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpapi.New(sess, arch, c.Logger).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *CLI) newRegistry(ctx context.Context, cfg config.Registry) (*registry.Registry, error) {
	if cfg.RedisAddr == "" {
		return registry.New(nil, cfg.TTL.Duration), nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	store, err := registry.NewRedisStore(dialCtx, registry.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("fragment registry backed by redis", "addr", cfg.RedisAddr)
	return registry.New(store, cfg.TTL.Duration), nil
}

func (c *CLI) newArchive(ctx context.Context, cfg config.Archive) (*archive.Archive, error) {
	if cfg.MongoURI == "" {
		return archive.New(nil), nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	store, err := archive.NewMongoStore(dialCtx, archive.MongoConfig{
		URI:        cfg.MongoURI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("archive backed by mongodb", "db", cfg.Database)
	return archive.New(store), nil
}
