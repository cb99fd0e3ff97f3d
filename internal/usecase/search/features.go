package search

import (
	"math"
	"time"

	"github.com/fafadlian/similaritySearch-V3/internal/domain/geo"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/similarity"
)

// candidate is one retrieved record being scored within a request.
type candidate struct {
	rec        passenger.Record
	shard      string
	rank       int
	distance   float64
	confidence float64 // distance-derived, in [0, 1]
	classifier float64 // 0-100, NaN when the classifier path is off

	// Geo enrichment of the record's travel endpoints.
	originCity string
	originCtry string
	destCity   string
	destCtry   string
}

// counters holds per-field value counts over the whole candidate set of a
// request. N is the merged candidate-set size.
type counters struct {
	firstname   similarity.Counter
	surname     similarity.Counter
	dob         similarity.Counter
	cityAddr    similarity.Counter
	countryAddr similarity.Counter
	sex         similarity.Counter
	nationality similarity.Counter
	originAirp  similarity.Counter
	destAirp    similarity.Counter
	originCity  similarity.Counter
	destCity    similarity.Counter
	originCtry  similarity.Counter
	destCtry    similarity.Counter
}

func buildCounters(cands []candidate) counters {
	pick := func(get func(candidate) string) similarity.Counter {
		values := make([]string, len(cands))
		for i, c := range cands {
			values[i] = get(c)
		}
		return similarity.NewCounter(values)
	}
	return counters{
		firstname:   pick(func(c candidate) string { return c.rec.Firstname }),
		surname:     pick(func(c candidate) string { return c.rec.Surname }),
		dob:         pick(func(c candidate) string { return c.rec.DOB }),
		cityAddr:    pick(func(c candidate) string { return c.rec.City }),
		countryAddr: pick(func(c candidate) string { return c.rec.Country }),
		sex:         pick(func(c candidate) string { return c.rec.Sex }),
		nationality: pick(func(c candidate) string { return c.rec.Nationality }),
		originAirp:  pick(func(c candidate) string { return c.rec.DepartureAirport }),
		destAirp:    pick(func(c candidate) string { return c.rec.ArrivalAirport }),
		originCity:  pick(func(c candidate) string { return c.originCity }),
		destCity:    pick(func(c candidate) string { return c.destCity }),
		originCtry:  pick(func(c candidate) string { return c.originCtry }),
		destCtry:    pick(func(c candidate) string { return c.destCtry }),
	}
}

// computeFeatures fills the full per-pair feature row for one candidate.
// Missing values flow through as NoSignal, never as 0.
func computeFeatures(q passenger.Query, c candidate, ct counters, maxDistanceKm float64, now time.Time) similarity.Features {
	var f similarity.Features

	f.FN1, f.FN2 = q.Firstname, c.rec.Firstname
	f.FNSimilarity = stringScore(q.Firstname, c.rec.Firstname)
	f.FNRarity1, f.FNProb1 = likelihood(ct.firstname, q.Firstname)
	f.FNRarity2, f.FNProb2 = likelihood(ct.firstname, c.rec.Firstname)

	f.SN1, f.SN2 = q.Surname, c.rec.Surname
	f.SNSimilarity = stringScore(q.Surname, c.rec.Surname)
	f.SNRarity1, f.SNProb1 = likelihood(ct.surname, q.Surname)
	f.SNRarity2, f.SNProb2 = likelihood(ct.surname, c.rec.Surname)

	f.DOB1, f.DOB2 = q.DOB, c.rec.DOB
	f.DOBSimilarity = stringScore(q.DOB, c.rec.DOB)
	f.DOBRarity1, f.DOBProb1 = likelihood(ct.dob, q.DOB)
	f.DOBRarity2, f.DOBProb2 = likelihood(ct.dob, c.rec.DOB)

	f.AgeSimilarity = similarity.Score(similarity.AgeSimilarity(q.DOB, c.rec.DOB, now))

	f.StrAddressSimilarity = stringScore(q.Address, c.rec.Address)
	f.JcdAddressSimilarity = trigramScore(q.Address, c.rec.Address)

	f.CityAddressMatch = exact(q.City, c.rec.City)
	f.CityAddressRarity1, f.CityAddressProb1 = likelihood(ct.cityAddr, q.City)
	f.CityAddressRarity2, f.CityAddressProb2 = likelihood(ct.cityAddr, c.rec.City)

	f.CountryAddressMatch = exact(q.Country, c.rec.Country)
	f.CountryAddressRarity1, f.CountryAddressProb1 = likelihood(ct.countryAddr, q.Country)
	f.CountryAddressRarity2, f.CountryAddressProb2 = likelihood(ct.countryAddr, c.rec.Country)

	f.SexMatch = exact(q.Sex, c.rec.Sex)
	f.SexRarity1, f.SexProb1 = likelihood(ct.sex, q.Sex)
	f.SexRarity2, f.SexProb2 = likelihood(ct.sex, c.rec.Sex)

	f.NatMatch = exact(q.Nationality, c.rec.Nationality)
	f.NatRarity1, f.NatProb1 = likelihood(ct.nationality, q.Nationality)
	f.NatRarity2, f.NatProb2 = likelihood(ct.nationality, c.rec.Nationality)

	f.OriginAirportMatch = exact(q.OriginIATA, c.rec.DepartureAirport)
	f.OriginAirportRarity1, f.OriginAirportProb1 = likelihood(ct.originAirp, q.OriginIATA)
	f.OriginAirportRarity2, f.OriginAirportProb2 = likelihood(ct.originAirp, c.rec.DepartureAirport)

	f.DestinationAirportMatch = exact(q.DestinationIATA, c.rec.ArrivalAirport)
	f.DestinationAirportRarity1, f.DestinationAirportProb1 = likelihood(ct.destAirp, q.DestinationIATA)
	f.DestinationAirportRarity2, f.DestinationAirportProb2 = likelihood(ct.destAirp, c.rec.ArrivalAirport)

	// Swapped-direction matches: a return leg has the endpoints reversed.
	f.OrgdesAirportMatch = exact(q.DestinationIATA, c.rec.DepartureAirport)
	f.DesorgAirportMatch = exact(q.OriginIATA, c.rec.ArrivalAirport)

	f.OriginCityMatch = exact(q.OriginCity, c.originCity)
	f.OriginCityRarity1, f.OriginCityProb1 = likelihood(ct.originCity, q.OriginCity)
	f.OriginCityRarity2, f.OriginCityProb2 = likelihood(ct.originCity, c.originCity)

	f.DestinationCityMatch = exact(q.DestCity, c.destCity)
	f.DestinationCityRarity1, f.DestinationCityProb1 = likelihood(ct.destCity, q.DestCity)
	f.DestinationCityRarity2, f.DestinationCityProb2 = likelihood(ct.destCity, c.destCity)

	f.OrgdesCityMatch = exact(q.DestCity, c.originCity)
	f.DesorgCityMatch = exact(q.OriginCity, c.destCity)

	f.OriginCountryMatch = exact(q.OriginCtry, c.originCtry)
	f.OriginCountryRarity1, f.OriginCountryProb1 = likelihood(ct.originCtry, q.OriginCtry)
	f.OriginCountryRarity2, f.OriginCountryProb2 = likelihood(ct.originCtry, c.originCtry)

	f.DestinationCountryMatch = exact(q.DestCtry, c.destCtry)
	f.DestinationCountryRarity1, f.DestinationCountryProb1 = likelihood(ct.destCtry, q.DestCtry)
	f.DestinationCountryRarity2, f.DestinationCountryProb2 = likelihood(ct.destCtry, c.destCtry)

	f.OrgdesCountryMatch = exact(q.DestCtry, c.originCtry)
	f.DesorgCountryMatch = exact(q.OriginCtry, c.destCtry)

	f.OriginSimilarity, f.OriginExpScore = geoScore(
		q.OriginLat, q.OriginLon, c.rec.DepLat, c.rec.DepLon, maxDistanceKm)
	f.DestinationSimilarity, f.DestinationExpScore = geoScore(
		q.DestLat, q.DestLon, c.rec.ArrLat, c.rec.ArrLon, maxDistanceKm)
	f.OrgdesSimilarity, f.OrgdesExpScore = geoScore(
		q.OriginLat, q.OriginLon, c.rec.ArrLat, c.rec.ArrLon, maxDistanceKm)
	f.DesorgSimilarity, f.DesorgExpScore = geoScore(
		q.DestLat, q.DestLon, c.rec.DepLat, c.rec.DepLon, maxDistanceKm)

	return f
}

// stringScore is the edit-distance ratio with missing sides as no signal.
func stringScore(a, b string) similarity.Score {
	if a == "" || b == "" {
		return similarity.NoSignal()
	}
	return similarity.Score(similarity.Ratio(a, b))
}

func trigramScore(a, b string) similarity.Score {
	if a == "" || b == "" {
		return similarity.NoSignal()
	}
	return similarity.Score(similarity.TrigramJaccard(a, b))
}

func exact(a, b string) similarity.Score {
	return similarity.Score(similarity.Exact(a, b))
}

func likelihood(c similarity.Counter, v string) (similarity.Score, similarity.Score) {
	rarity, prob := c.Likelihood(v)
	return similarity.Score(rarity), similarity.Score(prob)
}

// geoScore scales the [0,1] geo similarities to the 0-100 feature range.
func geoScore(lat1, lon1, lat2, lon2, maxDistanceKm float64) (similarity.Score, similarity.Score) {
	linear, expDecay := geo.Similarity(lat1, lon1, lat2, lon2, maxDistanceKm)
	if math.IsNaN(linear) {
		return similarity.NoSignal(), similarity.NoSignal()
	}
	return similarity.Score(linear * 100), similarity.Score(expDecay * 100)
}
