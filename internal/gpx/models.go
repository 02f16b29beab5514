package gpx

// GeoSample is one GPS fix from a track. Elevation and Time are nil when
// the source point carries no ele/time tag.
type GeoSample struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Elevation *float64 `json:"elevation_m,omitempty"`
	Time      *string  `json:"time,omitempty"`
}

// BoundingBox is the minimal lat/lon rectangle containing all samples,
// used by map clients to fit the viewport.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// RouteStatistics holds the aggregates derived from a sample sequence.
// Pointer fields are nil when the underlying data was not present.
type RouteStatistics struct {
	DistanceKm        float64  `json:"distance_km"`
	ElevationGainM    float64  `json:"elevation_gain_m"`
	MinElevationM     *float64 `json:"min_elevation_m,omitempty"`
	MaxElevationM     *float64 `json:"max_elevation_m,omitempty"`
	PointCount        int      `json:"point_count"`
	HasTimeData       bool     `json:"has_time_data"`
	TotalTimeSeconds  *float64 `json:"total_time_seconds,omitempty"`
	AvgPaceMinPerKm   *float64 `json:"avg_pace_min_per_km,omitempty"`
	AvgPaceMinPerMile *float64 `json:"avg_pace_min_per_mile,omitempty"`
}

// RouteData is the value handed to map rendering and persistence.
type RouteData struct {
	Samples    []GeoSample     `json:"samples"`
	Statistics RouteStatistics `json:"statistics"`
	Bounds     *BoundingBox    `json:"bounds,omitempty"`
}
