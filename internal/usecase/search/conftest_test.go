package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/artifact"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/vectorindex"
	"github.com/fafadlian/similaritySearch-V3/internal/usecase/embed"
)

var testNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// --- Mocks ---

type mockStore struct {
	bundles map[string]*artifact.Bundle
	errs    map[string]error
}

func (m *mockStore) Load(_ context.Context, label string) (*artifact.Bundle, error) {
	if err, ok := m.errs[label]; ok {
		return nil, err
	}
	b, ok := m.bundles[label]
	if !ok {
		return nil, fmt.Errorf("no fixture bundle for %s", label)
	}
	return b, nil
}

type airportInfo struct {
	lat, lon      float64
	city, country string
}

type mockGeo struct {
	airports map[string]airportInfo
}

func newMockGeo() *mockGeo {
	return &mockGeo{airports: map[string]airportInfo{
		"DXB": {lat: 25.2532, lon: 55.3657, city: "Dubai", country: "AE"},
		"JFK": {lat: 40.6413, lon: -73.7781, city: "New York", country: "US"},
		"LHR": {lat: 51.47, lon: -0.4543, city: "London", country: "GB"},
	}}
}

func (g *mockGeo) CoordsByIATA(iata string) (float64, float64, bool) {
	a, ok := g.airports[strings.ToUpper(iata)]
	return a.lat, a.lon, ok
}

func (g *mockGeo) CityByIATA(iata string) (string, bool) {
	a, ok := g.airports[strings.ToUpper(iata)]
	return a.city, ok
}

func (g *mockGeo) CountryByIATA(iata string) (string, bool) {
	a, ok := g.airports[strings.ToUpper(iata)]
	return a.country, ok
}

func (g *mockGeo) CoordsByCity(city string) (float64, float64, bool) {
	for _, a := range g.airports {
		if strings.EqualFold(a.city, strings.TrimSpace(city)) {
			return a.lat, a.lon, true
		}
	}
	return 0, 0, false
}

func (g *mockGeo) CountryByCity(city string) (string, bool) {
	for _, a := range g.airports {
		if strings.EqualFold(a.city, strings.TrimSpace(city)) {
			return a.country, true
		}
	}
	return "", false
}

// --- Fixture records ---

func recordJohn() passenger.Record {
	return passenger.Record{
		BookingRef: "BK1", TravelDoc: "P100", Firstname: "John", Surname: "Smith",
		DOB: "1980-01-01", Sex: "M", Nationality: "US",
		City: "Dubai", Country: "AE", Address: "12 Johnsmith Street",
		DepartureTime: "2019-01-10 08:00:00", ArrivalTime: "2019-01-10 16:00:00",
		DepartureAirport: "DXB", ArrivalAirport: "JFK",
		FlightNumber: "EK201", Carrier: "EK",
		DepLat: 25.2532, DepLon: 55.3657, ArrLat: 40.6413, ArrLon: -73.7781,
	}
}

func recordMaria() passenger.Record {
	return passenger.Record{
		BookingRef: "BK2", TravelDoc: "P200", Firstname: "Maria", Surname: "Garcia",
		DOB: "1992-06-15", Sex: "F", Nationality: "GB",
		City: "London", Country: "GB", Address: "7 Garcia Road",
		DepartureTime: "2019-02-05 10:00:00", ArrivalTime: "2019-02-05 13:00:00",
		DepartureAirport: "LHR", ArrivalAirport: "JFK",
		FlightNumber: "BA117", Carrier: "BA",
		DepLat: 51.47, DepLon: -0.4543, ArrLat: 40.6413, ArrLon: -73.7781,
	}
}

// --- Fixture bundle ---

func testEmbedder() *embed.Embedder {
	return embed.New(embed.Weights{}).WithNow(fixedNow)
}

// buildBundle assembles a shard bundle whose index holds the real
// embeddings of records, so a matching query retrieves at distance 0.
func buildBundle(t *testing.T, label string, records []passenger.Record) *artifact.Bundle {
	t.Helper()
	reducer := func() *artifact.TextReducer {
		return &artifact.TextReducer{
			NgramSize: 3,
			Vocabulary: map[string]int{
				"joh": 0, "ohn": 1, "smi": 2, "mit": 3,
				"mar": 4, "ari": 5, "gar": 6, "rci": 7,
			},
			IDF: []float64{1, 1, 1, 1, 1, 1, 1, 1},
			Components: [][]float64{
				{1, 0, 0, 0, 0, 0, 0, 0},
				{0, 0, 1, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 1, 0, 0, 0},
				{0, 0, 0, 0, 0, 0, 1, 0},
			},
		}
	}
	b := &artifact.Bundle{
		Label: label,
		Scaler: &artifact.Scaler{
			Features: []string{"relative_age", "dep_lat", "dep_lon", "arr_lat", "arr_lon"},
			Mean:     []float64{40, 30, 20, 40, -40},
			Scale:    []float64{10, 20, 40, 10, 40},
		},
		Encoder: &artifact.Encoder{
			Columns: []artifact.EncoderColumn{
				{Name: "gender", Categories: []string{"m", "f"}},
				{Name: "nationality", Categories: []string{"us", "gb"}},
			},
		},
		NameReducer: reducer(),
		AddrReducer: reducer(),
		Meta:        records,
	}
	const dim = 5 + 4 + 4 + 4

	path := filepath.Join(t.TempDir(), label+".vec")
	if err := vectorindex.Write(path, dim, make([]float32, dim*len(records))); err != nil {
		t.Fatal(err)
	}
	ix, err := vectorindex.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	b.Index = ix

	e := testEmbedder()
	vecs := make([]float32, 0, dim*len(records))
	for _, r := range records {
		v, err := e.Embed(b, embed.FromRecord(r))
		if err != nil {
			t.Fatal(err)
		}
		vecs = append(vecs, v...)
	}
	if err := vectorindex.Write(path, dim, vecs); err != nil {
		t.Fatal(err)
	}
	if b.Index, err = vectorindex.Open(path); err != nil {
		t.Fatal(err)
	}
	return b
}

// --- Service fixture ---

func testConfig() Config {
	return Config{
		Shards:               []string{"2019-01-01_2019-01-31", "2019-02-01_2019-02-28"},
		TopK:                 5,
		MaxDistanceKm:        20037.5,
		DefaultNameThreshold: 30,
		DefaultAgeThreshold:  20,
		Weights:              DefaultWeights,
	}
}

func newTestService(t *testing.T, cfg Config, store ArtifactStore) *Service {
	t.Helper()
	svc, err := New(cfg, store, newMockGeo(), testEmbedder(), nil, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return svc.WithNow(fixedNow)
}

// twoShardStore puts John in the January shard and Maria in February.
func twoShardStore(t *testing.T) *mockStore {
	t.Helper()
	return &mockStore{bundles: map[string]*artifact.Bundle{
		"2019-01-01_2019-01-31": buildBundle(t, "2019-01-01_2019-01-31", []passenger.Record{recordJohn()}),
		"2019-02-01_2019-02-28": buildBundle(t, "2019-02-01_2019-02-28", []passenger.Record{recordMaria()}),
	}}
}

func johnRequest() Request {
	return Request{
		Firstname: "John", Surname: "Smith", DOB: "1980-01-01",
		Address: "12 Johnsmith Street", CityName: "Dubai",
		Sex: "M", Nationality: "US",
		OriginIATA: "DXB", DestinationIATA: "JFK",
		ArrivalFrom: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		ArrivalTo:   time.Date(2019, 2, 28, 23, 59, 59, 0, time.UTC),
	}
}
