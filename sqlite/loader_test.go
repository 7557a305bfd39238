package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func flightsDefinition() *schema.TableDefinition {
	return &schema.TableDefinition{
		Name: "flights",
		Columns: []schema.ColumnDefinition{
			{ID: "number", Type: schema.FieldTypeString},
			{ID: "orig", Type: schema.FieldTypeString},
			{ID: "mileage", Type: schema.FieldTypeUnsigned},
			{ID: "delay", Type: schema.FieldTypeInteger},
			{ID: "departure", Field: "dep_date", Type: schema.FieldTypeDate},
			{ID: "cancelled", Type: schema.FieldTypeBoolean},
		},
	}
}

func flightDocs() []schema.Document {
	return []schema.Document{
		{"number": "F1", "orig": "ABQ", "mileage": uint64(642), "delay": int64(-5), "dep_date": time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC), "cancelled": false},
		{"number": "F2", "orig": "DAL", "mileage": 244, "delay": 30, "dep_date": time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC), "cancelled": true},
	}
}

func TestLoader_CreateTableSQL(t *testing.T) {
	l := NewLoader(nil, nil, &LoaderOptions{TablePrefix: "app_"})
	stmt, err := l.CreateTableSQL(flightsDefinition())
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "app_flights" (
    "number" TEXT,
    "orig" TEXT,
    "mileage" INTEGER,
    "delay" INTEGER,
    "dep_date" TEXT,
    "cancelled" INTEGER
);`, stmt)

	_, err = l.CreateTableSQL(&schema.TableDefinition{Name: "empty"})
	assert.Error(t, err)

	_, err = l.CreateTableSQL(&schema.TableDefinition{Name: "bad", Columns: []schema.ColumnDefinition{{ID: "x", Type: "array"}}})
	assert.Error(t, err)
}

func TestLoader_SQLGeneration(t *testing.T) {
	l := NewLoader(nil, zap.NewNop(), &LoaderOptions{Table: `odd"name`})
	def := flightsDefinition()
	def.Columns = append(def.Columns, schema.ColumnDefinition{ID: "orig_again", Field: "orig", Type: schema.FieldTypeString})

	insert, fields := l.InsertSQL(def)
	assert.Equal(t, []string{"number", "orig", "mileage", "delay", "dep_date", "cancelled"}, fields, "shared fields are stored once")
	assert.Equal(t, `INSERT INTO "odd""name" ("number", "orig", "mileage", "delay", "dep_date", "cancelled") VALUES (?, ?, ?, ?, ?, ?);`, insert)

	sel, _ := l.SelectSQL(def)
	assert.Equal(t, `SELECT "number", "orig", "mileage", "delay", "dep_date", "cancelled" FROM "odd""name" ORDER BY rowid;`, sel)
}

func TestLoader_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	l := NewLoader(db, zap.NewNop(), nil)
	def := flightsDefinition()

	exists, err := l.TableExists(ctx, def)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, l.CreateTable(ctx, def))
	require.NoError(t, l.CreateTable(ctx, def), "IF NOT EXISTS by default")

	exists, err = l.TableExists(ctx, def)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := l.InsertDocuments(ctx, def, flightDocs())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	docs, err := l.LoadDocuments(ctx, def)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, schema.Document{
		"number":    "F1",
		"orig":      "ABQ",
		"mileage":   uint64(642),
		"delay":     int64(-5),
		"dep_date":  time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC),
		"cancelled": false,
	}, docs[0])
	assert.Equal(t, uint64(244), docs[1]["mileage"])
	assert.Equal(t, int64(30), docs[1]["delay"])
	assert.Equal(t, true, docs[1]["cancelled"])
}

func TestLoader_InsertIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	l := NewLoader(db, nil, nil)
	def := flightsDefinition()
	require.NoError(t, l.CreateTable(ctx, def))

	docs := flightDocs()
	docs = append(docs, schema.Document{"number": "F3", "mileage": uint64(1) << 63})
	_, err := l.InsertDocuments(ctx, def, docs)
	assert.Error(t, err)

	loaded, err := l.LoadDocuments(ctx, def)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	count, err := l.InsertDocuments(ctx, def, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoader_NullsAndMissingFields(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	l := NewLoader(db, nil, nil)
	def := flightsDefinition()
	require.NoError(t, l.CreateTable(ctx, def))

	_, err := l.InsertDocuments(ctx, def, []schema.Document{{"number": "F9"}})
	require.NoError(t, err)

	docs, err := l.LoadDocuments(ctx, def)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "F9", docs[0]["number"])
	assert.Nil(t, docs[0]["dep_date"])
	assert.Contains(t, docs[0], "mileage")
}

func TestLoader_LoadMissingTable(t *testing.T) {
	l := NewLoader(openTestDB(t), nil, nil)
	_, err := l.LoadDocuments(context.Background(), flightsDefinition())
	assert.Error(t, err)
}

func TestEncodeDecodeValue(t *testing.T) {
	when := time.Date(2026, time.May, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kind    schema.FieldType
		value   any
		stored  any
		wantErr bool
	}{
		{"date", schema.FieldTypeDate, when, "2026-05-09", false},
		{"bool true", schema.FieldTypeBoolean, true, int64(1), false},
		{"bool false", schema.FieldTypeBoolean, false, int64(0), false},
		{"unsigned", schema.FieldTypeUnsigned, uint64(7), int64(7), false},
		{"unsigned from int", schema.FieldTypeUnsigned, 7, int64(7), false},
		{"unsigned overflow", schema.FieldTypeUnsigned, uint64(1) << 63, nil, true},
		{"integer", schema.FieldTypeInteger, int32(-4), int64(-4), false},
		{"string", schema.FieldTypeString, "ABQ", "ABQ", false},
		{"string mismatch", schema.FieldTypeString, 12, nil, true},
		{"date mismatch", schema.FieldTypeDate, "2026-05-09", nil, true},
		{"nil", schema.FieldTypeDate, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := encodeValue(tt.kind, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.stored, stored)
		})
	}

	decoded, err := decodeValue(schema.FieldTypeDate, []byte("2026-05-09"))
	require.NoError(t, err)
	assert.Equal(t, when, decoded)

	_, err = decodeValue(schema.FieldTypeDate, "05/09/2026")
	assert.Error(t, err)

	_, err = decodeValue(schema.FieldTypeUnsigned, int64(-1))
	assert.Error(t, err)
}
