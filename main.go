package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/asaidimu/go-facets/core/filter"
	"github.com/asaidimu/go-facets/core/schema"
	"github.com/asaidimu/go-facets/internal/flights"
	"github.com/asaidimu/go-facets/sqlite"
	"github.com/asaidimu/go-facets/utils"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

const dbFileName = "flights.db"

func main() {
	ctx := context.Background()

	// Start from an empty database file.
	if err := os.Remove(dbFileName); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database file %s: %v", dbFileName, err)
	}

	db, err := sql.Open("sqlite3", dbFileName)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer func() {
		if cErr := db.Close(); cErr != nil {
			log.Printf("Error closing database connection: %v", cErr)
		}
	}()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// --- Store the reference flights ---
	def := flights.Definition()
	loader := sqlite.NewLoader(db, logger, nil)
	if err := loader.CreateTable(ctx, def); err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}

	docs := make([]schema.Document, 0)
	for _, f := range flights.Scenario() {
		doc, err := utils.StructToDocument(f)
		if err != nil {
			log.Fatalf("Failed to convert flight %d: %v", f.Number, err)
		}
		docs = append(docs, doc)
	}
	if _, err := loader.InsertDocuments(ctx, def, docs); err != nil {
		log.Fatalf("Failed to insert flights: %v", err)
	}

	// --- Read them back as typed rows ---
	loaded, err := loader.LoadDocuments(ctx, def)
	if err != nil {
		log.Fatalf("Failed to load flights: %v", err)
	}
	rows := make([]flights.Flight, 0, len(loaded))
	for _, doc := range loaded {
		f, err := utils.DocumentToStruct[flights.Flight](doc)
		if err != nil {
			log.Fatalf("Failed to decode flight: %v", err)
		}
		rows = append(rows, f)
	}

	// --- Register the filterable columns ---
	tf, err := filter.NewTableFilter(rows, filter.WithName("flights"), filter.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create table filter: %v", err)
	}
	if _, err := tf.RegisterUint("number", func(f flights.Flight) uint64 { return f.Number }); err != nil {
		log.Fatalf("Failed to register column: %v", err)
	}
	if _, err := tf.RegisterString("orig", func(f flights.Flight) string { return f.Orig }); err != nil {
		log.Fatalf("Failed to register column: %v", err)
	}
	if _, err := tf.RegisterString("dest", func(f flights.Flight) string { return f.Dest }); err != nil {
		log.Fatalf("Failed to register column: %v", err)
	}
	if _, err := tf.RegisterUint("mileage", func(f flights.Flight) uint64 { return f.Mileage }); err != nil {
		log.Fatalf("Failed to register column: %v", err)
	}

	tf.SubscribeWithLabel(filter.EventValueToggled, "printer", func(ctx context.Context, event filter.FilterEvent) error {
		fmt.Printf("  event %s on %s: %d value(s) excluded\n", event.Type, event.Column, event.Excluded)
		return nil
	})
	tf.SubscribeWithLabel(filter.EventSearchApplied, "printer", func(ctx context.Context, event filter.FilterEvent) error {
		fmt.Printf("  event %s on %s: search %q, %d value(s) excluded\n", event.Type, event.Column, event.Search, event.Excluded)
		return nil
	})

	printVisible := func(title string) {
		fmt.Println(title)
		fmt.Println("-----------------------------------------")
		fmt.Printf("%-8s %-6s %-6s %-8s\n", "Number", "Orig", "Dest", "Mileage")
		fmt.Println("-----------------------------------------")
		for _, f := range tf.VisibleRows() {
			fmt.Printf("%-8d %-6s %-6s %-8d\n", f.Number, f.Orig, f.Dest, f.Mileage)
		}
		fmt.Println("-----------------------------------------")
	}

	// --- Exclude dest=HOU and look at the orig facet ---
	if err := tf.Apply(filter.Command{Type: filter.CommandToggleValue, Column: "dest", Value: schema.String("HOU")}); err != nil {
		log.Fatalf("Failed to toggle value: %v", err)
	}
	printVisible("\nFlights not bound for HOU:")

	fmt.Println("Menu of orig:")
	for _, e := range tf.Menu("orig") {
		marker := " "
		if e.Checked {
			marker = "x"
		}
		note := ""
		if !e.Reachable {
			note = " (unreachable)"
		}
		fmt.Printf("  [%s] %s%s\n", marker, e.Display, note)
	}

	// --- Narrow mileage with a range pattern ---
	err = tf.ApplyAll(
		filter.Command{Type: filter.CommandSetSearchText, Column: "mileage", Text: ">500,<1000"},
		filter.Command{Type: filter.CommandApplySearch, Column: "mileage"},
	)
	if err != nil {
		log.Fatalf("Failed to apply search: %v", err)
	}
	printVisible("\nFlights between 500 and 1000 miles:")
	fmt.Printf("Active columns: %v\n", tf.ActiveColumns())

	// --- Clear everything ---
	if err := tf.Apply(filter.Command{Type: filter.CommandResetAll}); err != nil {
		log.Fatalf("Failed to reset: %v", err)
	}
	printVisible("\nAll flights after reset:")

	for _, sub := range tf.Subscriptions() {
		tf.Unsubscribe(sub.ID)
	}
	fmt.Printf("\nDatabase written to %s. Inspect it with: sqlite3 %s 'SELECT * FROM flights;'\n", dbFileName, dbFileName)
}
