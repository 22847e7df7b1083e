package service

import (
	"math"

	"garmin-dashboard/internal/api"
	"garmin-dashboard/internal/store"
)

const earthRadiusKm = 6371.0

// GPSSummary describes a stored track without the points themselves
type GPSSummary struct {
	Points     int
	Start      store.GPSPoint
	End        store.GPSPoint
	MinLat     float64
	MaxLat     float64
	MinLng     float64
	MaxLng     float64
	DistanceKm float64 // along the track
}

// HasTrack reports whether there is anything to show
func (s GPSSummary) HasTrack() bool {
	return s.Points > 0
}

// SummarizeGPS computes the bounding box and length of a track
func SummarizeGPS(points []store.GPSPoint) GPSSummary {
	if len(points) == 0 {
		return GPSSummary{}
	}

	s := GPSSummary{
		Points: len(points),
		Start:  points[0],
		End:    points[len(points)-1],
		MinLat: points[0].Lat,
		MaxLat: points[0].Lat,
		MinLng: points[0].Lng,
		MaxLng: points[0].Lng,
	}

	for i, p := range points {
		s.MinLat = math.Min(s.MinLat, p.Lat)
		s.MaxLat = math.Max(s.MaxLat, p.Lat)
		s.MinLng = math.Min(s.MinLng, p.Lng)
		s.MaxLng = math.Max(s.MaxLng, p.Lng)
		if i > 0 {
			s.DistanceKm += haversineKm(points[i-1], p)
		}
	}

	return s
}

func haversineKm(a, b store.GPSPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// toStorePoints numbers a fetched track for storage
func toStorePoints(id store.ActivityID, track []api.GPSPoint) []store.GPSPoint {
	points := make([]store.GPSPoint, len(track))
	for i, p := range track {
		points[i] = store.GPSPoint{ActivityID: id, Seq: i, Lat: p.Lat(), Lng: p.Lng()}
	}
	return points
}
