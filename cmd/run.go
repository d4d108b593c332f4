package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/clock"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/engine"
	"github.com/abhisek/lexiz/internal/logging"
	"github.com/abhisek/lexiz/internal/metrics"
	"github.com/abhisek/lexiz/internal/store"
)

// runtime bundles what every engine-backed command needs.
type runtime struct {
	cfg        *config.Config
	configPath string
	log        *zap.Logger
	store      *store.Store
	catalog    *content.Catalog
	metrics    *metrics.Metrics
	engine     *engine.Engine
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", zap.Error(err))
	}
	_ = r.log.Sync()
}

// loadConfig reads --config and applies the --log-level override.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, path, nil
}

// loadCatalog returns the pack named by --content or the embedded corpus.
func loadCatalog(cmd *cobra.Command) (*content.Catalog, error) {
	path, _ := cmd.Flags().GetString("content")
	if path == "" {
		return content.Default()
	}
	p, err := readPack(path)
	if err != nil {
		return nil, err
	}
	return content.NewCatalog(p), nil
}

func readPack(path string) (*content.Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content pack: %w", err)
	}
	defer f.Close()
	p, err := content.LoadPack(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// openRuntime loads config, opens the store and builds the engine. reg may
// be nil for one-shot commands that don't export metrics.
func openRuntime(cmd *cobra.Command, reg prometheus.Registerer) (*runtime, error) {
	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cmd.Context(), dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath), zap.String("content", catalog.Version()))

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}
	eng := engine.New(st, catalog, clock.Real{}, cfg.Tuning,
		engine.WithLogger(log.Named("engine")),
		engine.WithMetrics(m))

	return &runtime{
		cfg:        cfg,
		configPath: cfgPath,
		log:        log,
		store:      st,
		catalog:    catalog,
		metrics:    m,
		engine:     eng,
	}, nil
}
