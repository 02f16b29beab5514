package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/geohndz/BibJournal/internal/gpx"
)

// EntryStats is the per-entry projection the composer folds over. Route is
// nil when the entry has no GPS data attached.
type EntryStats struct {
	Route          *gpx.RouteStatistics `json:"route,omitempty"`
	DistanceLabel  string               `json:"distance_label,omitempty"`
	FinishTimeText string               `json:"finish_time,omitempty"`
}

// AggregateStats summarizes a user's whole journal.
type AggregateStats struct {
	TotalRaces       int     `json:"total_races"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	AveragePace      *string `json:"average_pace,omitempty"`
	FavoriteDistance *string `json:"favorite_distance,omitempty"`
}

// ComputeAggregate folds entry projections into cross-entry summaries. It
// never fails; entries missing data simply contribute less.
func ComputeAggregate(entries []EntryStats) AggregateStats {
	agg := AggregateStats{TotalRaces: len(entries)}

	var paceSamples []float64
	var labelOrder []string
	labelCounts := map[string]int{}

	for _, e := range entries {
		// Only measured GPS distance counts toward the total. A label
		// like "Marathon" is never converted to a nominal distance here.
		if e.Route != nil && e.Route.DistanceKm > 0 {
			agg.TotalDistanceKm += e.Route.DistanceKm
		}

		if pace, ok := paceSample(e); ok {
			paceSamples = append(paceSamples, pace)
		}

		if e.DistanceLabel != "" {
			if _, seen := labelCounts[e.DistanceLabel]; !seen {
				labelOrder = append(labelOrder, e.DistanceLabel)
			}
			labelCounts[e.DistanceLabel]++
		}
	}

	if len(paceSamples) > 0 {
		var sum float64
		for _, p := range paceSamples {
			sum += p
		}
		formatted := FormatPace(sum / float64(len(paceSamples)))
		agg.AveragePace = &formatted
	}

	if favorite, ok := favoriteLabel(labelOrder, labelCounts); ok {
		agg.FavoriteDistance = &favorite
	}

	return agg
}

// paceSample returns this entry's pace in seconds per kilometer. Both
// inputs must come from measurement: GPS time over GPS distance, or a
// typed finish time over GPS distance. A finish time over a categorical
// label is never used.
func paceSample(e EntryStats) (float64, bool) {
	if e.Route == nil || e.Route.DistanceKm <= 0 {
		return 0, false
	}
	if e.Route.TotalTimeSeconds != nil && *e.Route.TotalTimeSeconds > 0 {
		return *e.Route.TotalTimeSeconds / e.Route.DistanceKm, true
	}
	if e.FinishTimeText != "" {
		seconds, err := ParseFinishTime(e.FinishTimeText)
		if err == nil && seconds > 0 {
			return float64(seconds) / e.Route.DistanceKm, true
		}
	}
	return 0, false
}

// favoriteLabel picks the most frequent label; ties go to the label seen
// first.
func favoriteLabel(order []string, counts map[string]int) (string, bool) {
	best := ""
	bestCount := 0
	for _, label := range order {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best, best != ""
}

// ParseFinishTime accepts "H:MM:SS", "MM:SS" or a bare integer second
// count.
func ParseFinishTime(text string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")

	var fields []int64
	for _, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || v < 0 {
			return 0, errors.New("unparsable finish time")
		}
		fields = append(fields, v)
	}

	switch len(fields) {
	case 1:
		return fields[0], nil
	case 2:
		return fields[0]*60 + fields[1], nil
	case 3:
		return fields[0]*3600 + fields[1]*60 + fields[2], nil
	default:
		return 0, errors.New("unparsable finish time")
	}
}

// FormatPace renders seconds-per-km as "M:SS/km".
func FormatPace(secPerKm float64) string {
	total := int(math.Round(secPerKm))
	return fmt.Sprintf("%d:%02d/km", total/60, total%60)
}
