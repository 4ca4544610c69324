package service

import "time"

const (
	// How far back the threshold estimator looks
	ThresholdHistoryDays = 120

	// Races older than this no longer anchor the VDOT cross-check
	RaceFreshnessDays = 90
)

// thresholdHistoryCutoff returns the earliest date the estimator scans.
func thresholdHistoryCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -ThresholdHistoryDays)
}
