// Package pricing maps subject labels to hourly rates and fixed
// 10-session bundle prices.
package pricing

import "strings"

const (
	RateKS3     = 25
	RateALevel  = 40
	RateDefault = 30 // GCSE and anything unrecognised
)

// Bundle prices are a fixed override per tier, not hourly rate x 10.
const (
	BundleKS3     = 230
	BundleDefault = 280
	BundleALevel  = 370
)

// BundleSize is the series length sold as a single upfront pack.
const BundleSize = 10

// HourlyRate returns the hourly rate for a subject label. Matching is
// case-insensitive substring matching on the tier markers.
func HourlyRate(subject string) int {
	s := strings.ToLower(subject)
	switch {
	case strings.Contains(s, "ks3"):
		return RateKS3
	case strings.Contains(s, "a-level"), strings.Contains(s, "a level"), strings.Contains(s, "alevel"):
		return RateALevel
	default:
		return RateDefault
	}
}

// BundlePrice returns the upfront price of a 10-session pack for the
// subject's tier.
func BundlePrice(subject string) int {
	switch HourlyRate(subject) {
	case RateKS3:
		return BundleKS3
	case RateALevel:
		return BundleALevel
	default:
		return BundleDefault
	}
}
