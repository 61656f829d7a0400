package domain

import (
	"math"
	"time"
)

const earthRadiusKm = 6371.0

// Coordinate is a WGS84 latitude/longitude pair
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm returns the great-circle distance between c and o
func (c Coordinate) DistanceKm(o Coordinate) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := o.Lat * math.Pi / 180
	dLat := (o.Lat - c.Lat) * math.Pi / 180
	dLng := (o.Lng - c.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// CollectorCandidate is a kabadi-wala returned by a discovery query
type CollectorCandidate struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Mobile            string     `json:"mobile,omitempty"`
	Area              string     `json:"area"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	PriorityActive    bool       `json:"priorityActive"`
	PriorityExpiresAt *LocalTime `json:"priorityExpiresAt,omitempty"`
}

// Location returns the candidate's position, if known
func (c CollectorCandidate) Location() (Coordinate, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *c.Latitude, Lng: *c.Longitude}, true
}

// PriorityAt reports whether the candidate's priority boost is active at t
func (c CollectorCandidate) PriorityAt(t time.Time) bool {
	if !c.PriorityActive {
		return false
	}
	return c.PriorityExpiresAt == nil || c.PriorityExpiresAt.After(t)
}
