// Package passenger defines the fixed record schemas shared by the
// matching pipeline: the archived Passenger Record and the request-scoped
// Query Profile.
package passenger

import "time"

// timeLayouts are the timestamp formats accepted from shard metadata tables.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Record is one passenger row from a shard metadata table. Rows are
// immutable at serving time and aligned 1:1 with the shard's vector index.
type Record struct {
	BookingRef       string  `parquet:"booking_ref" json:"BookingID"`
	TravelDoc        string  `parquet:"travel_doc" json:"TravelDocNumber"`
	Firstname        string  `parquet:"firstname" json:"Firstname"`
	Surname          string  `parquet:"surname" json:"Surname"`
	DOB              string  `parquet:"dob" json:"DOB"` // YYYY-MM-DD, empty when unknown
	Sex              string  `parquet:"gender" json:"Sex"`
	Nationality      string  `parquet:"nationality" json:"Nationality"`
	City             string  `parquet:"city" json:"CityName"`
	Country          string  `parquet:"country" json:"Country of Address"`
	Address          string  `parquet:"address" json:"Address"`
	DepartureTime    string  `parquet:"departure_time" json:"DepartureDateTime"`
	ArrivalTime      string  `parquet:"arrival_time" json:"ArrivalDateTime"`
	DepartureAirport string  `parquet:"departure_airport" json:"OriginIATA"`
	ArrivalAirport   string  `parquet:"arrival_airport" json:"DestinationIATA"`
	FlightNumber     string  `parquet:"flight_number" json:"FlightNumber"`
	Carrier          string  `parquet:"carrier" json:"OriginatorAirlineCode"`
	DepLat           float64 `parquet:"dep_lat" json:"OriginLat"`
	DepLon           float64 `parquet:"dep_lon" json:"OriginLon"`
	ArrLat           float64 `parquet:"arr_lat" json:"DestinationLat"`
	ArrLon           float64 `parquet:"arr_lon" json:"DestinationLon"`
}

// FullName returns the display name for the record.
func (r Record) FullName() string {
	switch {
	case r.Firstname == "":
		return r.Surname
	case r.Surname == "":
		return r.Firstname
	default:
		return r.Firstname + " " + r.Surname
	}
}

// ParseTime parses a metadata timestamp. Unparseable or empty values
// report ok=false rather than an error; row-level defects must not abort
// a whole search.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Query is the request-scoped profile of the traveler being resolved.
// Every field is optional; empty strings mean "not supplied".
type Query struct {
	Firstname       string
	Surname         string
	DOB             string // YYYY-MM-DD or empty
	Address         string
	City            string
	Sex             string
	Nationality     string
	OriginIATA      string
	DestinationIATA string

	// Enriched from the geo reference service before embedding. NaN when
	// the corresponding endpoint could not be resolved.
	OriginLat  float64
	OriginLon  float64
	DestLat    float64
	DestLon    float64
	CityLat    float64
	CityLon    float64
	Country    string // country of the address city
	OriginCity string
	OriginCtry string
	DestCity   string
	DestCtry   string
}
