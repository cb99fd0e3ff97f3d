package search

import (
	"context"

	"github.com/fafadlian/similaritySearch-V3/internal/repository/artifact"
)

// ArtifactStore loads shard bundles on demand.
type ArtifactStore interface {
	Load(ctx context.Context, label string) (*artifact.Bundle, error)
}

// GeoService resolves airports and cities to coordinates and countries.
// Lookups report ok=false for unknown keys; they never fail.
type GeoService interface {
	CoordsByIATA(iata string) (lat, lon float64, ok bool)
	CityByIATA(iata string) (string, bool)
	CountryByIATA(iata string) (string, bool)
	CoordsByCity(city string) (lat, lon float64, ok bool)
	CountryByCity(city string) (string, bool)
}
