package analysis

import (
	"errors"
	"math"
)

// ErrInsufficientStream is returned when a stream has too few samples
// or never completes a full unit of distance.
var ErrInsufficientStream = errors.New("insufficient stream data")

// Split is one full unit of distance with interpolated boundary times.
// DistanceMeters is always UnitIndex * the unit size used to compute it.
type Split struct {
	UnitIndex      int // 1-based
	DistanceMeters float64
	ElapsedSeconds float64 // cumulative time at the unit boundary
	PaceSeconds    float64 // time spent inside this unit
	AvgHeartrate   *float64
	ElevationDelta *float64 // meters, boundary-to-boundary
}

// ComputeSplits walks the cumulative distance of a raw stream and emits
// one split per crossed multiple of unitMeters. Boundary times, heart
// rate, and altitude are linearly interpolated between the bracketing
// samples. Zero-length distance intervals (stalled GPS) are skipped and
// the final partial unit is dropped.
//
// Fewer than 2 usable samples, or a stream that never completes a full
// unit, returns ErrInsufficientStream.
func ComputeSplits(samples []Sample, unitMeters float64) ([]Split, error) {
	if unitMeters <= 0 {
		return nil, errors.New("unit distance must be positive")
	}

	points := sanitizeSamples(samples)
	if len(points) < 2 {
		return nil, ErrInsufficientStream
	}

	var splits []Split

	boundary := unitMeters
	prevBoundaryTime := points[0].ElapsedSeconds
	prevBoundaryAlt := points[0].Altitude

	// Per-unit HR accumulation over raw samples
	var hrSum float64
	var hrCount int

	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		cur := points[i]

		if validHeartrate(cur.Heartrate) {
			hrSum += float64(*cur.Heartrate)
			hrCount++
		}

		// A single sparse interval can cross several boundaries.
		for cur.DistanceMeters >= boundary {
			span := cur.DistanceMeters - prev.DistanceMeters
			if span <= 0 {
				// Stalled GPS: distance did not advance, nothing to
				// interpolate against.
				break
			}

			frac := (boundary - prev.DistanceMeters) / span
			boundaryTime := prev.ElapsedSeconds + frac*(cur.ElapsedSeconds-prev.ElapsedSeconds)

			split := Split{
				UnitIndex:      len(splits) + 1,
				DistanceMeters: boundary,
				ElapsedSeconds: boundaryTime,
				PaceSeconds:    boundaryTime - prevBoundaryTime,
			}

			if hrCount > 0 {
				avg := hrSum / float64(hrCount)
				split.AvgHeartrate = &avg
			} else if hr := interpolateHeartrate(prev, cur, frac); hr != nil {
				// Later boundaries inside the same sparse interval have
				// no raw samples of their own to average.
				split.AvgHeartrate = hr
			}

			if alt := interpolateAltitude(prev, cur, frac); alt != nil {
				if prevBoundaryAlt != nil {
					delta := *alt - *prevBoundaryAlt
					split.ElevationDelta = &delta
				}
				prevBoundaryAlt = alt
			}

			splits = append(splits, split)
			prevBoundaryTime = boundaryTime
			boundary = unitMeters * float64(len(splits)+1)
			hrSum, hrCount = 0, 0
		}
	}

	if len(splits) == 0 {
		return nil, ErrInsufficientStream
	}
	return splits, nil
}

// interpolateHeartrate returns the heart rate at fraction frac between
// two samples, or nil when either reading is missing or implausible.
func interpolateHeartrate(a, b Sample, frac float64) *float64 {
	if !validHeartrate(a.Heartrate) || !validHeartrate(b.Heartrate) {
		return nil
	}
	hr := float64(*a.Heartrate) + frac*(float64(*b.Heartrate)-float64(*a.Heartrate))
	return &hr
}

// interpolateAltitude returns the altitude at fraction frac between two
// samples, or nil when either endpoint lacks altitude data.
func interpolateAltitude(a, b Sample, frac float64) *float64 {
	if a.Altitude == nil || b.Altitude == nil {
		return nil
	}
	alt := *a.Altitude + frac*(*b.Altitude-*a.Altitude)
	return &alt
}

// FullUnits returns how many complete units a total distance covers.
func FullUnits(distanceMeters, unitMeters float64) int {
	if unitMeters <= 0 || distanceMeters <= 0 {
		return 0
	}
	return int(math.Floor(distanceMeters / unitMeters))
}
