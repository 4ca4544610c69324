package analysis

import "errors"

// ErrNoSegment is returned when a stream contains no contiguous
// sub-range of at least the minimum distance.
var ErrNoSegment = errors.New("no qualifying segment")

// DefaultMinSegmentMeters is the default minimum distance a hidden
// effort must cover to be scored.
const DefaultMinSegmentMeters = 800.0

// BestSegment is the fastest sustained contiguous portion of a run,
// scored as a standalone time trial.
type BestSegment struct {
	StartMeters    float64
	EndMeters      float64
	DistanceMeters float64
	ElapsedSeconds float64
	AdjustedVDOT   float64
	RawVDOT        float64
}

// FindBestSegment scans contiguous sub-ranges covering at least
// minMeters and returns the one with the highest condition-adjusted
// VDOT. Longer windows at the same pace score higher (the sustainable
// VO2 fraction falls with duration), so scoring only the narrowest
// window per start would miss sustained efforts: the search sweeps a
// doubling ladder of window distances, from minMeters up to the whole
// stream, with one linear two-pointer pass per rung.
//
// Ties on adjusted VDOT resolve to the shorter elapsed time, then the
// earlier start offset. Sub-ranges whose VDOT falls outside the
// plausible range are skipped, and ErrNoSegment is returned when no
// sub-range qualifies.
func FindBestSegment(samples []Sample, minMeters float64, adj *ConditionAdjustment) (*BestSegment, error) {
	if minMeters <= 0 {
		minMeters = DefaultMinSegmentMeters
	}

	points := sanitizeSamples(samples)
	if len(points) < 2 {
		return nil, ErrNoSegment
	}
	total := points[len(points)-1].DistanceMeters - points[0].DistanceMeters
	if total < minMeters {
		return nil, ErrNoSegment
	}

	var best *BestSegment
	for target := minMeters; ; target *= 2 {
		if target > total {
			target = total
		}
		if candidate := bestWindowCovering(points, target, adj); candidate != nil {
			if best == nil || betterSegment(candidate, best) {
				best = candidate
			}
		}
		if target >= total {
			break
		}
	}

	if best == nil {
		return nil, ErrNoSegment
	}
	return best, nil
}

// bestWindowCovering scores, for every start sample, the narrowest
// window reaching at least target meters. The end pointer only ever
// advances, so one pass is linear in the stream length.
func bestWindowCovering(points []Sample, target float64, adj *ConditionAdjustment) *BestSegment {
	var best *BestSegment

	right := 0
	for left := 0; left < len(points)-1; left++ {
		if right < left+1 {
			right = left + 1
		}
		for right < len(points) && points[right].DistanceMeters-points[left].DistanceMeters < target {
			right++
		}
		if right >= len(points) {
			break
		}

		dist := points[right].DistanceMeters - points[left].DistanceMeters
		elapsed := points[right].ElapsedSeconds - points[left].ElapsedSeconds
		if elapsed <= 0 {
			continue
		}

		adjusted, err := EstimateVDOT(dist, elapsed, adj)
		if err != nil {
			continue
		}
		raw, err := EstimateVDOT(dist, elapsed, nil)
		if err != nil {
			raw = adjusted
		}

		candidate := &BestSegment{
			StartMeters:    points[left].DistanceMeters,
			EndMeters:      points[right].DistanceMeters,
			DistanceMeters: dist,
			ElapsedSeconds: elapsed,
			AdjustedVDOT:   adjusted,
			RawVDOT:        raw,
		}

		if best == nil || betterSegment(candidate, best) {
			best = candidate
		}
	}

	return best
}

// betterSegment orders candidates by adjusted VDOT, breaking ties by
// shorter duration and then earlier start.
func betterSegment(a, b *BestSegment) bool {
	if a.AdjustedVDOT != b.AdjustedVDOT {
		return a.AdjustedVDOT > b.AdjustedVDOT
	}
	if a.ElapsedSeconds != b.ElapsedSeconds {
		return a.ElapsedSeconds < b.ElapsedSeconds
	}
	return a.StartMeters < b.StartMeters
}
