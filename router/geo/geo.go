package geo

import "math"

// 地球半径/m
const EARTH_RADIUS = 6371000.0

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// 经纬度是否可用（NaN或超出范围视为缺失）
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Haversine 球面距离，单位m
func Haversine(a, b LatLng) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EARTH_RADIUS * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HaversineKm 球面距离，单位km
func HaversineKm(a, b LatLng) float64 {
	return Haversine(a, b) / 1000
}
