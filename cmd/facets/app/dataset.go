package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/asaidimu/go-facets/config"
	"github.com/asaidimu/go-facets/core/filter"
	"github.com/asaidimu/go-facets/core/schema"
	"github.com/asaidimu/go-facets/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// dataset is a configured table loaded into a document filter.
type dataset struct {
	config   *config.Config
	filter   *filter.TableFilter[schema.Document]
	registry *prometheus.Registry
}

// loadDataset reads the configuration named by --config, loads its rows from
// SQLite and registers the configured columns.
func loadDataset(ctx context.Context, logger *zap.Logger) (*dataset, error) {
	path := viper.GetString("config")
	if path == "" {
		return nil, fmt.Errorf("--config (or %s_CONFIG) is required", EnvPrefix)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Dataset.Path, err)
	}
	defer db.Close()

	loader := sqlite.NewLoader(db, logger, cfg.Dataset.LoaderOptions())
	docs, err := loader.LoadDocuments(ctx, cfg.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", cfg.Name, err)
	}
	logger.Debug("Loaded dataset", zap.String("table", cfg.Name), zap.Int("rows", len(docs)))

	registry := prometheus.NewRegistry()
	tf, err := filter.NewDocumentFilter(docs, cfg.Definition(),
		filter.WithName(cfg.Name),
		filter.WithLogger(logger),
		filter.WithMetrics(registry),
	)
	if err != nil {
		return nil, err
	}
	return &dataset{config: cfg, filter: tf, registry: registry}, nil
}

// writeMetrics prints the filter counters as "name{labels} value" lines.
func (d *dataset) writeMetrics(w io.Writer) error {
	families, err := d.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(labels)
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}
