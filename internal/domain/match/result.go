// Package match defines the enriched candidate row returned by the
// matching pipeline.
package match

import (
	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/similarity"
)

// Result is a candidate passenger record enriched with retrieval
// confidence, the full similarity feature row, and the final compound
// score. Results are presented sorted by ConfidenceLevel, then
// CompoundScore, descending.
type Result struct {
	passenger.Record

	FullName           string `json:"FullName"`
	OriginCity         string `json:"OriginCity"`
	OriginCountry      string `json:"OriginCountry"`
	DestinationCity    string `json:"DestinationCity"`
	DestinationCountry string `json:"DestinationCountry"`

	Shard    string           `json:"Shard"`
	Rank     int              `json:"Rank"`
	Distance similarity.Score `json:"Distance"`

	// ConfidenceLevel is 0-100, derived either from index distance
	// (100/(1+d)) or from the classifier when that path is active.
	ConfidenceLevel similarity.Score `json:"Confidence Level"`

	similarity.Features

	CompoundScore similarity.Score `json:"Compound Similarity Score"`
}

// DedupKey is the natural identity of a candidate across shards: the same
// person on the same booking and flight must appear once.
func (r Result) DedupKey() string {
	return r.TravelDoc + "|" + r.BookingRef + "|" + r.FlightNumber
}
