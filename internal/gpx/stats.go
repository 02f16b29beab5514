package gpx

import (
	"time"

	"github.com/geohndz/BibJournal/internal/shared/geo"
)

const (
	milesPerKm = 0.621371

	// Inter-sample time deltas at or above an hour are treated as clock
	// jumps or pauses and excluded from the moving-time total.
	maxPairGapSeconds = 3600

	// Only the leading samples are inspected when deciding whether a
	// track carries time data at all.
	timeProbeSamples = 10
)

// ComputeStatistics derives distance, elevation, timing and pace
// aggregates from an ordered sample sequence. It never fails: an empty or
// single-sample input yields zero distance and nil optional fields.
func ComputeStatistics(samples []GeoSample) RouteStatistics {
	stats := RouteStatistics{
		PointCount:  len(samples),
		HasTimeData: hasTimeData(samples),
	}

	var totalSeconds float64
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]

		stats.DistanceKm += geo.HaversineKm(prev.Lat, prev.Lon, curr.Lat, curr.Lon)

		if stats.HasTimeData {
			if delta, ok := pairSeconds(prev, curr); ok {
				totalSeconds += delta
			}
		}

		if prev.Elevation != nil && curr.Elevation != nil && *curr.Elevation > *prev.Elevation {
			stats.ElevationGainM += *curr.Elevation - *prev.Elevation
		}
	}

	for _, s := range samples {
		if s.Elevation == nil {
			continue
		}
		if stats.MinElevationM == nil || *s.Elevation < *stats.MinElevationM {
			v := *s.Elevation
			stats.MinElevationM = &v
		}
		if stats.MaxElevationM == nil || *s.Elevation > *stats.MaxElevationM {
			v := *s.Elevation
			stats.MaxElevationM = &v
		}
	}

	if stats.HasTimeData && totalSeconds > 0 {
		stats.TotalTimeSeconds = &totalSeconds

		// Pace requires all three: time data, a positive total, and a
		// positive distance.
		if stats.DistanceKm > 0 {
			perKm := totalSeconds / stats.DistanceKm / 60
			perMile := totalSeconds / (stats.DistanceKm * milesPerKm) / 60
			stats.AvgPaceMinPerKm = &perKm
			stats.AvgPaceMinPerMile = &perMile
		}
	}

	return stats
}

// hasTimeData probes only the first few samples; sparse timestamps that
// begin later in the track are treated as no time data.
func hasTimeData(samples []GeoSample) bool {
	limit := len(samples)
	if limit > timeProbeSamples {
		limit = timeProbeSamples
	}
	for i := 0; i < limit; i++ {
		if samples[i].Time != nil {
			return true
		}
	}
	return false
}

func pairSeconds(prev, curr GeoSample) (float64, bool) {
	if prev.Time == nil || curr.Time == nil {
		return 0, false
	}
	t0, err := time.Parse(time.RFC3339, *prev.Time)
	if err != nil {
		return 0, false
	}
	t1, err := time.Parse(time.RFC3339, *curr.Time)
	if err != nil {
		return 0, false
	}

	delta := t1.Sub(t0).Seconds()
	if delta <= 0 || delta >= maxPairGapSeconds {
		return 0, false
	}
	return delta, true
}
