// Package geodata is the read-only airport/geography reference service.
// It is constructed once from the geo crosswalk CSV and indexed by IATA
// code and city name up front, so every lookup afterwards is a plain map
// read and safe for unsynchronized concurrent use.
package geodata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fafadlian/similaritySearch-V3/internal/domain/geo"
)

// Airport is one row of the geo crosswalk table.
type Airport struct {
	IATA    string
	City    string
	Country string // ISO country code
	Lat     float64
	Lon     float64
}

// Service resolves airport codes and city names to coordinates, cities,
// and countries.
type Service struct {
	byIATA map[string]Airport
	byCity map[string]Airport // lowercased city -> first airport seen
}

// Load reads the crosswalk CSV. Required columns: IATA, City, HH_ISO,
// Latitude, Longitude. Rows with a missing IATA code or unparseable or
// out-of-range coordinates are skipped.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geodata: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read geodata header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"IATA", "City", "HH_ISO", "Latitude", "Longitude"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("geodata: missing column %q", required)
		}
	}

	svc := &Service{
		byIATA: make(map[string]Airport),
		byCity: make(map[string]Airport),
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read geodata row: %w", err)
		}
		a := Airport{
			IATA:    strings.ToUpper(strings.TrimSpace(field(row, col["IATA"]))),
			City:    strings.TrimSpace(field(row, col["City"])),
			Country: strings.TrimSpace(field(row, col["HH_ISO"])),
		}
		if a.IATA == "" {
			continue
		}
		a.Lat, err = strconv.ParseFloat(field(row, col["Latitude"]), 64)
		if err != nil {
			continue
		}
		a.Lon, err = strconv.ParseFloat(field(row, col["Longitude"]), 64)
		if err != nil {
			continue
		}
		if !geo.ValidateCoordinates(a.Lat, a.Lon) {
			continue
		}
		svc.byIATA[a.IATA] = a
		if city := strings.ToLower(a.City); city != "" {
			if _, seen := svc.byCity[city]; !seen {
				svc.byCity[city] = a
			}
		}
	}
	if len(svc.byIATA) == 0 {
		return nil, fmt.Errorf("geodata: no usable rows in %s", path)
	}
	return svc, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Len returns the number of airports loaded.
func (s *Service) Len() int { return len(s.byIATA) }

// HealthCheck reports an error when the reference table is empty.
func (s *Service) HealthCheck(_ context.Context) error {
	if len(s.byIATA) == 0 {
		return fmt.Errorf("geodata table is empty")
	}
	return nil
}

// CoordsByIATA returns the latitude and longitude of an airport.
func (s *Service) CoordsByIATA(iata string) (lat, lon float64, ok bool) {
	a, ok := s.byIATA[strings.ToUpper(strings.TrimSpace(iata))]
	return a.Lat, a.Lon, ok
}

// CityByIATA returns the city an airport belongs to.
func (s *Service) CityByIATA(iata string) (string, bool) {
	a, ok := s.byIATA[strings.ToUpper(strings.TrimSpace(iata))]
	return a.City, ok
}

// CountryByIATA returns the ISO country code of an airport.
func (s *Service) CountryByIATA(iata string) (string, bool) {
	a, ok := s.byIATA[strings.ToUpper(strings.TrimSpace(iata))]
	return a.Country, ok
}

// CoordsByCity returns coordinates for a city, using its first airport.
func (s *Service) CoordsByCity(city string) (lat, lon float64, ok bool) {
	a, ok := s.byCity[strings.ToLower(strings.TrimSpace(city))]
	return a.Lat, a.Lon, ok
}

// CountryByCity returns the ISO country code for a city.
func (s *Service) CountryByCity(city string) (string, bool) {
	a, ok := s.byCity[strings.ToLower(strings.TrimSpace(city))]
	return a.Country, ok
}
