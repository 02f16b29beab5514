package gpx

import (
	"encoding/xml"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Track points carry lat/lon as raw strings so one bad attribute drops
// that point instead of failing the whole decode.
type gpxFile struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []struct {
		Segments []struct {
			Points []trackPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

type trackPoint struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Ele  string `xml:"ele"`
	Time string `xml:"time"`
}

// Parse reads raw GPX content and returns the route samples together with
// derived statistics and bounds. Malformed XML fails with InvalidFormat;
// well-formed XML with zero usable points fails with NoTrackPoints.
// Point-level problems (missing or non-numeric lat/lon) drop only the
// offending point.
func Parse(raw []byte) (RouteData, error) {
	var doc gpxFile
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return RouteData{}, &ParseError{Code: InvalidFormat, Err: err}
	}

	var samples []GeoSample
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				sample, ok := toSample(pt)
				if !ok {
					continue
				}
				samples = append(samples, sample)
			}
		}
	}

	if len(samples) == 0 {
		return RouteData{}, &ParseError{Code: NoTrackPoints, Err: errors.New("no track points found")}
	}

	return RouteData{
		Samples:    samples,
		Statistics: ComputeStatistics(samples),
		Bounds:     computeBounds(samples),
	}, nil
}

func toSample(pt trackPoint) (GeoSample, bool) {
	lat, ok := parseCoord(pt.Lat)
	if !ok {
		return GeoSample{}, false
	}
	lon, ok := parseCoord(pt.Lon)
	if !ok {
		return GeoSample{}, false
	}

	sample := GeoSample{Lat: lat, Lon: lon}
	// Non-numeric elevation means absent elevation, not a bad point.
	if ele, ok := parseCoord(pt.Ele); ok {
		sample.Elevation = &ele
	}
	if ts := strings.TrimSpace(pt.Time); ts != "" {
		sample.Time = &ts
	}
	return sample, true
}

func parseCoord(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func computeBounds(samples []GeoSample) *BoundingBox {
	if len(samples) == 0 {
		return nil
	}

	box := BoundingBox{
		MinLat: samples[0].Lat, MaxLat: samples[0].Lat,
		MinLon: samples[0].Lon, MaxLon: samples[0].Lon,
	}
	for _, s := range samples[1:] {
		box.MinLat = math.Min(box.MinLat, s.Lat)
		box.MaxLat = math.Max(box.MaxLat, s.Lat)
		box.MinLon = math.Min(box.MinLon, s.Lon)
		box.MaxLon = math.Max(box.MaxLon, s.Lon)
	}
	return &box
}
