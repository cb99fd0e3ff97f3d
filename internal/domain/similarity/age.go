package similarity

import (
	"math"
	"time"
)

const dobLayout = "2006-01-02"

// Age returns the whole-year age for a YYYY-MM-DD date of birth at the
// given reference time. ok is false for empty or unparseable dates.
// Future dates clamp to 0.
func Age(dob string, now time.Time) (int, bool) {
	if dob == "" {
		return 0, false
	}
	born, err := time.Parse(dobLayout, dob)
	if err != nil {
		return 0, false
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() ||
		(now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return max(age, 0), true
}

// AgeSimilarity scores how close two dates of birth are in age terms.
// Identical ages score 100; otherwise 100 - 100*ln(older/younger), floored
// at 0. A missing or unparseable DOB on either side yields no signal; a
// valid DOB producing age 0 yields 0. Symmetric in its arguments.
func AgeSimilarity(dob1, dob2 string, now time.Time) float64 {
	age1, ok1 := Age(dob1, now)
	age2, ok2 := Age(dob2, now)
	if !ok1 || !ok2 {
		return math.NaN()
	}
	if age1 == 0 || age2 == 0 {
		return 0
	}
	if age1 == age2 {
		return 100
	}
	older := float64(max(age1, age2))
	younger := float64(min(age1, age2))
	return math.Max(0, 100-100*math.Log(older/younger))
}
