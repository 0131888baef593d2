package geoloc

import (
	"math"
	"regexp"
	"strconv"
)

// Map-embed URL shapes seen across sources. Ordered: the first matching
// pattern wins and no fallback geocoding is attempted.
var (
	latParamPattern  = regexp.MustCompile(`[?&]lat=(-?\d+(?:\.\d+)?)`)
	lonParamPattern  = regexp.MustCompile(`[?&](?:lon|lng)=(-?\d+(?:\.\d+)?)`)
	atSegmentPattern = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	mapFragPattern   = regexp.MustCompile(`#map=\d+/(-?\d+(?:\.\d+)?)/(-?\d+(?:\.\d+)?)`)
	mlatParamPattern = regexp.MustCompile(`[?&]mlat=(-?\d+(?:\.\d+)?)`)
	mlonParamPattern = regexp.MustCompile(`[?&]mlon=(-?\d+(?:\.\d+)?)`)
	llParamPattern   = regexp.MustCompile(`[?&]ll=(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)
)

// ExtractFromIframe parses a map-embed URL into a coordinate pair. It tries
// the known URL shapes in order (lat=/lon= query pair, "@lat,lon" path
// segment, "#map=zoom/lat/lon" fragment, mlat=/mlon= pair, ll= pair) and
// returns the first hit. Coordinates are rounded to 4 decimal places at
// this boundary so that near-duplicate scrapes of the same venue collapse
// to one entry downstream.
func ExtractFromIframe(url string) (lat, lon float64, ok bool) {
	if url == "" {
		return 0, 0, false
	}

	if latM, lonM := latParamPattern.FindStringSubmatch(url), lonParamPattern.FindStringSubmatch(url); latM != nil && lonM != nil {
		return makePair(latM[1], lonM[1])
	}
	if m := atSegmentPattern.FindStringSubmatch(url); m != nil {
		return makePair(m[1], m[2])
	}
	if m := mapFragPattern.FindStringSubmatch(url); m != nil {
		return makePair(m[1], m[2])
	}
	if latM, lonM := mlatParamPattern.FindStringSubmatch(url), mlonParamPattern.FindStringSubmatch(url); latM != nil && lonM != nil {
		return makePair(latM[1], lonM[1])
	}
	if m := llParamPattern.FindStringSubmatch(url); m != nil {
		return makePair(m[1], m[2])
	}
	return 0, 0, false
}

func makePair(latStr, lonStr string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false
	}
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return 0, 0, false
	}
	return Round4(lat), Round4(lon), true
}

// Round4 rounds a coordinate to 4 decimal places (roughly 10 m), the
// precision every coordinate in the pipeline is normalized to.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
