package geospatial

import "github.com/mmcloughlin/geohash"

// Geohash precisions used across the service. Cell sizes are approximate.
const (
	PrecisionNeighbourhood uint = 6 // ~1.2km x 0.6km
	PrecisionStreet        uint = 7 // ~150m x 150m
)

// Geohash encodes a coordinate into a geohash cell of the given precision.
func Geohash(lat, lon float64, precision uint) string {
	return geohash.EncodeWithPrecision(lat, lon, precision)
}
