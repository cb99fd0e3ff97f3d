// Package client provides a Go client for the passenger similarity search
// HTTP API.
//
//	c, _ := client.New("http://localhost:8080",
//	    client.WithAPIKey("secret"),
//	)
//	resp, err := c.Search(ctx, client.SearchParams{
//	    Firstname:       "John",
//	    Surname:         "Smith",
//	    DOB:             "1980-01-01",
//	    OriginIATA:      "DXB",
//	    DestinationIATA: "JFK",
//	    ArrivalDateFrom: "2019-01-01",
//	    ArrivalDateTo:   "2019-02-28",
//	})
package client
