package app

import (
	"database/sql"
	"fmt"

	"github.com/asaidimu/go-facets/core/schema"
	"github.com/asaidimu/go-facets/internal/flights"
	"github.com/asaidimu/go-facets/sqlite"
	"github.com/asaidimu/go-facets/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedOptions struct {
	db       string
	table    string
	rows     int
	seed     uint64
	scenario bool
}

func newSeedCmd() *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write sample flights into a SQLite database",
		Long: `Create the flights table in a SQLite database and fill it with random
flights between US airports, or with the four reference flights.`,
		Example: `  facets seed --db flights.db --rows 10000 --seed 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite database file")
	cmd.Flags().StringVar(&opts.table, "table", "", "Table name (defaults to flights)")
	cmd.Flags().IntVar(&opts.rows, "rows", 1000, "Number of random flights")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed")
	cmd.Flags().BoolVar(&opts.scenario, "scenario", false, "Write the four reference flights instead of random ones")
	if err := cmd.MarkFlagRequired("db"); err != nil {
		panic(fmt.Sprintf("failed to mark db flag as required: %v", err))
	}
	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if opts.rows < 0 {
		return fmt.Errorf("--rows must not be negative")
	}

	rows := flights.Scenario()
	if !opts.scenario {
		rows = flights.Generate(opts.rows, opts.seed)
	}

	docs, err := flightDocuments(rows)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", opts.db)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", opts.db, err)
	}
	defer db.Close()

	loaderOpts := sqlite.DefaultLoaderOptions()
	loaderOpts.Table = opts.table
	loader := sqlite.NewLoader(db, logger, loaderOpts)

	def := flights.Definition()
	ctx := cmd.Context()
	if err := loader.CreateTable(ctx, def); err != nil {
		return err
	}
	count, err := loader.InsertDocuments(ctx, def, docs)
	if err != nil {
		return err
	}

	logger.Info("Seeded flights", zap.String("db", opts.db), zap.Int64("rows", count))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d flights into %s\n", count, opts.db)
	return nil
}

func flightDocuments(rows []flights.Flight) ([]schema.Document, error) {
	docs := make([]schema.Document, 0, len(rows))
	for _, f := range rows {
		doc, err := utils.StructToDocument(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
