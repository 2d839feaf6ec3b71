package models

import (
	"math"

	"freightbroker/apperrors"
)

const earthRadiusMiles = 3958.8

// GeoPoint is a human-readable address plus WGS 84 coordinates.
type GeoPoint struct {
	Str string  `json:"str" bson:"str" db:"str"`
	Lat float64 `json:"lat" bson:"lat" db:"lat"`
	Lng float64 `json:"lng" bson:"lng" db:"lng"`
}

func (p GeoPoint) Validate(field string) error {
	if p.Str == "" {
		return apperrors.NewValidation(field + ": address string is required")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return apperrors.NewValidation(field + ": latitude out of range [-90,90]")
	}
	if p.Lng < -180 || p.Lng > 180 {
		return apperrors.NewValidation(field + ": longitude out of range [-180,180]")
	}
	return nil
}

// DistanceMiles returns the great-circle distance between two points via the
// haversine formula. Degree deltas are never a substitute: one degree of
// longitude spans a different real distance at different latitudes.
func (p GeoPoint) DistanceMiles(q GeoPoint) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// GeoBounds is a lat/lng rectangle used only as a cheap index pre-filter;
// the authoritative check is always DistanceMiles against the radius.
type GeoBounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundsAround returns a rectangle guaranteed to contain every point within
// radiusMiles of center. Longitude span widens with latitude; near the poles
// it degenerates to the full range.
func BoundsAround(center GeoPoint, radiusMiles float64) GeoBounds {
	dLat := radiusMiles / 69.0
	b := GeoBounds{
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLat: math.Min(center.Lat+dLat, 90),
		MinLng: -180,
		MaxLng: 180,
	}
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat > 1e-6 {
		dLng := radiusMiles / (69.17 * cosLat)
		// A window crossing the antimeridian stays at the full range rather
		// than producing an inverted interval.
		if dLng < 180 && center.Lng-dLng >= -180 && center.Lng+dLng <= 180 {
			b.MinLng = center.Lng - dLng
			b.MaxLng = center.Lng + dLng
		}
	}
	return b
}
