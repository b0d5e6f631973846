package domain

import (
	"fmt"
	"math"
)

const metersPerMile = 1609.34

// TripMetrics converts raw provider output into display-ready trip figures:
// whole miles and an "Xh Ym" / "Ym" duration string.
func TripMetrics(distanceMeters, durationSeconds float64) (miles int, estimatedTime string) {
	if distanceMeters < 0 {
		distanceMeters = 0
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	miles = int(math.Round(distanceMeters / metersPerMile))

	hours := int(durationSeconds) / 3600
	minutes := int(math.Round(math.Mod(durationSeconds, 3600) / 60))

	// Rounding can push minutes to 60; carry into hours so we never render
	// the invalid "1h 60m".
	if minutes == 60 {
		hours++
		minutes = 0
	}

	if hours > 0 {
		estimatedTime = fmt.Sprintf("%dh %dm", hours, minutes)
	} else {
		estimatedTime = fmt.Sprintf("%dm", minutes)
	}
	return miles, estimatedTime
}
