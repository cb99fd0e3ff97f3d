package artifact

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/repository/vectorindex"
)

const testLabel = "2019-01-01_2019-02-28"

// fixtureDim: 5 scaled numerics + 4 one-hot + 2 name + 2 address.
const fixtureDim = 13

func testScaler() *Scaler {
	return &Scaler{
		Features: []string{"relative_age", "dep_lat", "dep_lon", "arr_lat", "arr_lon"},
		Mean:     []float64{0, 0, 0, 0, 0},
		Scale:    []float64{1, 1, 1, 1, 1},
	}
}

func testEncoder() *Encoder {
	return &Encoder{
		Columns: []EncoderColumn{
			{Name: "gender", Categories: []string{"m", "f"}},
			{Name: "nationality", Categories: []string{"us", "gb"}},
		},
	}
}

func testReducer() *TextReducer {
	return &TextReducer{
		NgramSize:  3,
		Vocabulary: map[string]int{"joh": 0, "ohn": 1, "smi": 2, "mit": 3},
		IDF:        []float64{1, 1, 1.5, 1.5},
		Components: [][]float64{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
		},
	}
}

func testRecords() []passenger.Record {
	return []passenger.Record{
		{
			BookingRef: "BK1", TravelDoc: "P100", Firstname: "John", Surname: "Smith",
			DOB: "1980-01-01", Sex: "M", Nationality: "US",
			DepartureTime: "2019-01-10 08:00:00", ArrivalTime: "2019-01-10 16:00:00",
			DepartureAirport: "DXB", ArrivalAirport: "JFK", FlightNumber: "EK201",
			DepLat: 25.2532, DepLon: 55.3657, ArrLat: 40.6413, ArrLon: -73.7781,
		},
		{
			BookingRef: "BK2", TravelDoc: "P200", Firstname: "Maria", Surname: "Garcia",
			DOB: "1992-06-15", Sex: "F", Nationality: "GB",
			DepartureTime: "2019-02-01 10:00:00", ArrivalTime: "2019-02-01 13:00:00",
			DepartureAirport: "LHR", ArrivalAirport: "JFK", FlightNumber: "BA117",
			DepLat: 51.47, DepLon: -0.4543, ArrLat: 40.6413, ArrLon: -73.7781,
		},
	}
}

func writeJSONArtifact(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

// writeFixtureBundle writes a complete, consistent artifact set for
// testLabel into dir and returns the records it contains.
func writeFixtureBundle(t *testing.T, dir string) []passenger.Record {
	t.Helper()
	return writeSecondBundle(t, dir, testLabel)
}

// writeSecondBundle writes the fixture artifact set under another label.
func writeSecondBundle(t *testing.T, dir, label string) []passenger.Record {
	t.Helper()
	records := testRecords()
	paths := bundlePaths(dir, label)

	writeJSONArtifact(t, paths["scaler"], testScaler())
	writeJSONArtifact(t, paths["encoder"], testEncoder())
	writeJSONArtifact(t, paths["tfidf_name"], testReducer())
	writeJSONArtifact(t, paths["tfidf_addr"], testReducer())

	vecs := make([]float32, 0, len(records)*fixtureDim)
	for i := range records {
		for j := 0; j < fixtureDim; j++ {
			vecs = append(vecs, float32(i))
		}
	}
	if err := vectorindex.Write(paths["index"], fixtureDim, vecs); err != nil {
		t.Fatal(err)
	}

	if err := parquet.WriteFile(paths["metadata"], records); err != nil {
		t.Fatal(err)
	}
	return records
}

func newTestStore(t *testing.T, dir string, cacheSize int) *Store {
	t.Helper()
	s, err := NewStore(dir, cacheSize, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return s
}
