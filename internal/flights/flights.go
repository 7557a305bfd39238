// Package flights provides the sample flight dataset used by the demo and the
// seed command: a fixed four-row scenario and a random generator over real
// US airports.
package flights

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
)

// Flight is one row of the sample dataset.
type Flight struct {
	Number    uint64    `json:"number"`
	Orig      string    `json:"orig"`
	Dest      string    `json:"dest"`
	DepDate   time.Time `json:"dep_date"`
	Mileage   uint64    `json:"mileage"`
	Cancelled bool      `json:"cancelled"`
	Gate      string    `json:"gate"`
}

// Definition declares the filterable columns of the flight table.
func Definition() *schema.TableDefinition {
	return &schema.TableDefinition{
		Name: "flights",
		Columns: []schema.ColumnDefinition{
			{ID: "number", Type: schema.FieldTypeUnsigned},
			{ID: "orig", Type: schema.FieldTypeString},
			{ID: "dest", Type: schema.FieldTypeString},
			{ID: "dep_date", Type: schema.FieldTypeDate, Format: schema.DefaultDateFormat},
			{ID: "mileage", Type: schema.FieldTypeUnsigned},
			{ID: "cancelled", Type: schema.FieldTypeBoolean},
			{ID: "gate", Type: schema.FieldTypeString},
		},
	}
}

// Scenario returns the four reference flights.
func Scenario() []Flight {
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	return []Flight{
		{Number: 101, Orig: "ABQ", Dest: "DAL", DepDate: day(time.January, 12), Mileage: 642, Gate: "A4"},
		{Number: 202, Orig: "DAL", Dest: "HOU", DepDate: day(time.February, 3), Mileage: 244, Gate: "12"},
		{Number: 303, Orig: "SEA", Dest: "PHX", DepDate: day(time.March, 1), Mileage: 1100, Gate: "N7"},
		{Number: 404, Orig: "ABQ", Dest: "SEA", DepDate: day(time.January, 12), Mileage: 900},
	}
}

// Airport is a code with its coordinates in degrees.
type Airport struct {
	Code     string
	Lat, Lon float64
}

// Airports is the pool random flights are drawn from.
var Airports = []Airport{
	{"ATL", 33.640411, -84.419853},
	{"ORD", 41.978611, -87.904724},
	{"LAX", 33.942791, -118.410042},
	{"DFW", 32.897480, -97.040443},
	{"DEN", 39.849312, -104.673828},
	{"JFK", 40.641766, -73.780968},
	{"SFO", 37.615223, -122.389977},
	{"SEA", 47.443546, -122.301659},
	{"LAS", 36.086010, -115.153969},
	{"MCO", 28.424618, -81.310753},
	{"CLT", 35.213890, -80.943054},
	{"PHX", 33.435249, -112.010216},
	{"MIA", 25.795160, -80.279594},
	{"IAH", 29.993067, -95.341812},
	{"EWR", 40.689491, -74.174538},
	{"BOS", 42.365589, -71.010025},
	{"DTW", 42.213249, -83.352859},
	{"PHL", 39.872940, -75.243988},
	{"LGA", 40.776863, -73.874069},
	{"FLL", 26.074215, -80.150726},
	{"BWI", 39.177540, -76.668526},
	{"SAN", 32.732346, -117.196053},
	{"SJC", 37.363949, -121.928940},
	{"DAL", 32.848152, -96.851349},
	{"BNA", 36.131687, -86.668823},
	{"TPA", 27.979168, -82.539337},
	{"MKE", 42.949890, -87.900414},
	{"CVG", 39.053276, -84.663017},
	{"SNA", 33.678925, -117.862869},
	{"TUS", 32.116112, -110.941109},
	{"ROC", 43.128002, -77.665474},
	{"AVL", 35.436077, -82.541298},
	{"TYS", 35.805813, -83.989815},
	{"MEM", 35.040031, -89.981873},
	{"ABQ", 35.0402, -106.609},
	{"HOU", 29.6454, -95.2789},
	{"MDW", 41.786, -87.7524},
	{"PDX", 45.5887, -122.5933},
}

const earthRadiusMiles = 3959.0

// Distance returns the great-circle distance between two airports in miles.
func Distance(a, b Airport) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dlat := rad(b.Lat - a.Lat)
	dlon := rad(b.Lon - a.Lon)

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Pow(math.Sin(dlon/2), 2)
	return earthRadiusMiles * 2 * math.Asin(math.Sqrt(h))
}

// Generate returns n random flights departing in 2026. The same seed yields
// the same flights.
func Generate(n int, seed uint64) []Flight {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Flight, 0, max(n, 0))

	for range max(n, 0) {
		orig := rng.IntN(len(Airports))
		dest := rng.IntN(len(Airports) - 1)
		if dest >= orig {
			dest++
		}
		from, to := Airports[orig], Airports[dest]

		f := Flight{
			Number:    uint64(100 + rng.IntN(9899)),
			Orig:      from.Code,
			Dest:      to.Code,
			DepDate:   time.Date(2026, time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC),
			Mileage:   uint64(math.Round(Distance(from, to))),
			Cancelled: rng.Float64() < 0.05,
		}
		if rng.Float64() < 0.8 {
			prefix := ""
			if rng.IntN(2) == 0 {
				prefix = string(rune('A' + rng.IntN(26)))
			}
			f.Gate = fmt.Sprintf("%s%d", prefix, 1+rng.IntN(99))
		}
		out = append(out, f)
	}
	return out
}
