package tui

import (
	"fmt"
	"math"

	"runlab/internal/analysis"
)

// unitLabel names the distance unit implied by the split size.
func unitLabel(unitMeters float64) string {
	if unitMeters == analysis.MetersPerKm {
		return "km"
	}
	return "mi"
}

// paceLabel is the per-unit suffix for paces, e.g. "/mi".
func paceLabel(unitMeters float64) string {
	return "/" + unitLabel(unitMeters)
}

// formatDistance renders meters in the display unit, e.g. "5.2 mi".
func formatDistance(meters, unitMeters float64) string {
	return fmt.Sprintf("%.1f %s", meters/unitMeters, unitLabel(unitMeters))
}

// formatPace renders seconds-per-unit as "M:SS". Sub-second noise is
// rounded rather than truncated so 479.6 reads 8:00, not 7:59.
func formatPace(secondsPerUnit float64) string {
	if secondsPerUnit <= 0 || math.IsNaN(secondsPerUnit) || math.IsInf(secondsPerUnit, 0) {
		return "-"
	}
	total := int(math.Round(secondsPerUnit))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// formatDuration renders elapsed seconds as "H:MM:SS" or "MM:SS".
func formatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
