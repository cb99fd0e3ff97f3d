package client

import (
	"context"
	"net/http"
)

// SearchParams are the inputs of a similarity search. Every identity field
// is optional; the arrival date bounds are required.
type SearchParams struct {
	Firstname       string `json:"firstname,omitempty"`
	Surname         string `json:"surname,omitempty"`
	DOB             string `json:"dob,omitempty"` // YYYY-MM-DD
	Address         string `json:"address,omitempty"`
	CityName        string `json:"city_name,omitempty"`
	Sex             string `json:"sex,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	OriginIATA      string `json:"iata_o,omitempty"`
	DestinationIATA string `json:"iata_d,omitempty"`
	ArrivalDateFrom string `json:"arrival_date_from"` // YYYY-MM-DD
	ArrivalDateTo   string `json:"arrival_date_to"`   // YYYY-MM-DD

	NameThreshold     *float64 `json:"nameThreshold,omitempty"`
	AgeThreshold      *float64 `json:"ageThreshold,omitempty"`
	LocationThreshold *float64 `json:"locationThreshold,omitempty"`
}

// Match is one candidate row. Feature columns beyond the headline scores
// are kept in Raw for callers that need them.
type Match struct {
	FullName        string   `json:"FullName"`
	Firstname       string   `json:"Firstname"`
	Surname         string   `json:"Surname"`
	DOB             string   `json:"DOB"`
	Sex             string   `json:"Sex"`
	Nationality     string   `json:"Nationality"`
	TravelDocNumber string   `json:"TravelDocNumber"`
	BookingID       string   `json:"BookingID"`
	FlightNumber    string   `json:"FlightNumber"`
	OriginIATA      string   `json:"OriginIATA"`
	DestinationIATA string   `json:"DestinationIATA"`
	Shard           string   `json:"Shard"`
	Rank            int      `json:"Rank"`
	Distance        *float64 `json:"Distance"`
	ConfidenceLevel *float64 `json:"Confidence Level"`
	CompoundScore   *float64 `json:"Compound Similarity Score"`
	FNSimilarity    *float64 `json:"FNSimilarity"`
	SNSimilarity    *float64 `json:"SNSimilarity"`
	AgeSimilarity   *float64 `json:"AgeSimilarity"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings"`
	Data     []Match  `json:"data"`
}

// Search runs a similarity search.
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchResponse, error) {
	var resp SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/search", params, &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}
