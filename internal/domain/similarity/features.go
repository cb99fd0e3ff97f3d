package similarity

// Features is the full per-pair feature row computed for a query against
// one candidate record. Every column is always present; a feature whose
// inputs were missing holds NoSignal, which downstream scoring coerces to
// 0 and the boundary serializes as null. Column names follow the archive's
// established output schema.
type Features struct {
	FNSimilarity Score  `json:"FNSimilarity"`
	FN1          string `json:"FN1"`
	FN2          string `json:"FN2"`
	FNRarity1    Score  `json:"FN_rarity1"`
	FNRarity2    Score  `json:"FN_rarity2"`
	FNProb1      Score  `json:"FN_prob1"`
	FNProb2      Score  `json:"FN_prob2"`

	SNSimilarity Score  `json:"SNSimilarity"`
	SN1          string `json:"SN1"`
	SN2          string `json:"SN2"`
	SNRarity1    Score  `json:"SN_rarity1"`
	SNRarity2    Score  `json:"SN_rarity2"`
	SNProb1      Score  `json:"SN_prob1"`
	SNProb2      Score  `json:"SN_prob2"`

	DOBSimilarity Score  `json:"DOBSimilarity"`
	DOB1          string `json:"DOB1"`
	DOB2          string `json:"DOB2"`
	DOBRarity1    Score  `json:"DOB_rarity1"`
	DOBRarity2    Score  `json:"DOB_rarity2"`
	DOBProb1      Score  `json:"DOB_prob1"`
	DOBProb2      Score  `json:"DOB_prob2"`

	AgeSimilarity Score `json:"AgeSimilarity"`

	StrAddressSimilarity Score `json:"strAddressSimilarity"`
	JcdAddressSimilarity Score `json:"jcdAddressSimilarity"`

	CityAddressMatch   Score `json:"cityAddressMatch"`
	CityAddressRarity1 Score `json:"cityAddressRarity1"`
	CityAddressProb1   Score `json:"cityAddressProb1"`
	CityAddressRarity2 Score `json:"cityAddressRarity2"`
	CityAddressProb2   Score `json:"cityAddressProb2"`

	CountryAddressMatch   Score `json:"countryAddressMatch"`
	CountryAddressRarity1 Score `json:"countryAddressRarity1"`
	CountryAddressProb1   Score `json:"countryAddressProb1"`
	CountryAddressRarity2 Score `json:"countryAddressRarity2"`
	CountryAddressProb2   Score `json:"countryAddressProb2"`

	SexMatch   Score `json:"sexMatch"`
	SexRarity1 Score `json:"sexRarity1"`
	SexProb1   Score `json:"sexProb1"`
	SexRarity2 Score `json:"sexRarity2"`
	SexProb2   Score `json:"sexProb2"`

	NatMatch   Score `json:"natMatch"`
	NatRarity1 Score `json:"natRarity1"`
	NatProb1   Score `json:"natProb1"`
	NatRarity2 Score `json:"natRarity2"`
	NatProb2   Score `json:"natProb2"`

	OriginAirportMatch   Score `json:"originAirportMatch"`
	OriginAirportRarity1 Score `json:"originAirportRarity1"`
	OriginAirportProb1   Score `json:"originAirportProb1"`
	OriginAirportRarity2 Score `json:"originAirportRarity2"`
	OriginAirportProb2   Score `json:"originAirportProb2"`

	DestinationAirportMatch   Score `json:"destinationAirportMatch"`
	DestinationAirportRarity1 Score `json:"destinationAirportRarity1"`
	DestinationAirportProb1   Score `json:"destinationAirportProb1"`
	DestinationAirportRarity2 Score `json:"destinationAirportRarity2"`
	DestinationAirportProb2   Score `json:"destinationAirportProb2"`

	OrgdesAirportMatch Score `json:"orgdesAirportMatch"`
	DesorgAirportMatch Score `json:"desorgAirportMatch"`

	OriginCityMatch   Score `json:"originCityMatch"`
	OriginCityRarity1 Score `json:"originCityRarity1"`
	OriginCityProb1   Score `json:"originCityProb1"`
	OriginCityRarity2 Score `json:"originCityRarity2"`
	OriginCityProb2   Score `json:"originCityProb2"`

	DestinationCityMatch   Score `json:"destinationCityMatch"`
	DestinationCityRarity1 Score `json:"destinationCityRarity1"`
	DestinationCityProb1   Score `json:"destinationCityProb1"`
	DestinationCityRarity2 Score `json:"destinationCityRarity2"`
	DestinationCityProb2   Score `json:"destinationCityProb2"`

	OrgdesCityMatch Score `json:"orgdesCityMatch"`
	DesorgCityMatch Score `json:"desorgCityMatch"`

	OriginCountryMatch   Score `json:"originCountryMatch"`
	OriginCountryRarity1 Score `json:"originCountryRarity1"`
	OriginCountryProb1   Score `json:"originCountryProb1"`
	OriginCountryRarity2 Score `json:"originCountryRarity2"`
	OriginCountryProb2   Score `json:"originCountryProb2"`

	DestinationCountryMatch   Score `json:"destinationCountryMatch"`
	DestinationCountryRarity1 Score `json:"destinationCountryRarity1"`
	DestinationCountryProb1   Score `json:"destinationCountryProb1"`
	DestinationCountryRarity2 Score `json:"destinationCountryRarity2"`
	DestinationCountryProb2   Score `json:"destinationCountryProb2"`

	OrgdesCountryMatch Score `json:"orgdesCountryMatch"`
	DesorgCountryMatch Score `json:"desorgCountryMatch"`

	OriginSimilarity      Score `json:"originSimilarity"`
	OriginExpScore        Score `json:"originExpScore"`
	DestinationSimilarity Score `json:"destinationSimilarity"`
	DestinationExpScore   Score `json:"destinationExpScore"`
	OrgdesSimilarity      Score `json:"orgdesSimilarity"`
	OrgdesExpScore        Score `json:"orgdesExpScore"`
	DesorgSimilarity      Score `json:"desorgSimilarity"`
	DesorgExpScore        Score `json:"desorgExpScore"`
}
