// Package cli implements the atlas command-line interface.
//
// Commands operate on a single knowledge graph loaded from the
// configured store, mutate it, and persist it back. The CLI is built
// using cobra with structured logging via charmbracelet/log.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlas/pkg/buildinfo"
	"github.com/matzehuels/atlas/pkg/cache"
	"github.com/matzehuels/atlas/pkg/config"
	"github.com/matzehuels/atlas/pkg/kgraph"
	"github.com/matzehuels/atlas/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "atlas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config location when set
	// via the --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "atlas",
		Short:        "Atlas manages a personal knowledge graph",
		Long:         `Atlas is a CLI tool for building a personal knowledge graph of topics, papers, and the relationships between them, with interactive visualizations.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/atlas/config.toml)")

	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.edgeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.backupCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, honoring the --config override.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}

// newStore builds the snapshot store selected by the config.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.BackendMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return store.NewFileStore(cfg.DataDir)
	}
}

// loadGraph loads the graph from the store. A store with no snapshot
// yet yields an empty graph, so first use needs no setup step.
func (c *CLI) loadGraph(ctx context.Context, st store.Store) (*kgraph.Graph, error) {
	g, err := st.Load(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		c.Logger.Debug("no snapshot yet, starting empty")
		return kgraph.New(), nil
	}
	return g, err
}

// withGraph runs fn with the loaded graph and persists it afterwards
// when fn reports a mutation.
func (c *CLI) withGraph(ctx context.Context, fn func(g *kgraph.Graph) (mutated bool, err error)) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := c.loadGraph(ctx, st)
	if err != nil {
		return err
	}

	mutated, err := fn(g)
	if err != nil {
		return err
	}
	if mutated {
		return st.Save(ctx, g)
	}
	return nil
}

// newCache builds the render artifact cache.
func newCache(cfg config.Cache) (cache.Cache, error) {
	if cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/atlas/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
