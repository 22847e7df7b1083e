package service

import (
	"math"
	"testing"

	"garmin-dashboard/internal/store"
)

func TestSummarizeGPS(t *testing.T) {
	points := []store.GPSPoint{
		{Seq: 0, Lat: 45.0, Lng: 16.0},
		{Seq: 1, Lat: 45.01, Lng: 16.0},
		{Seq: 2, Lat: 45.01, Lng: 16.02},
	}

	s := SummarizeGPS(points)

	if s.Points != 3 {
		t.Errorf("Points = %d, want 3", s.Points)
	}
	if s.Start.Seq != 0 || s.End.Seq != 2 {
		t.Errorf("Start/End = %d/%d, want 0/2", s.Start.Seq, s.End.Seq)
	}
	if s.MinLat != 45.0 || s.MaxLat != 45.01 || s.MinLng != 16.0 || s.MaxLng != 16.02 {
		t.Errorf("bounding box = [%v %v %v %v]", s.MinLat, s.MaxLat, s.MinLng, s.MaxLng)
	}

	// 0.01 deg of latitude is ~1.11 km, 0.02 deg of longitude at 45N ~1.57 km
	if math.Abs(s.DistanceKm-2.68) > 0.05 {
		t.Errorf("DistanceKm = %.3f, want about 2.68", s.DistanceKm)
	}
}

func TestSummarizeGPS_Empty(t *testing.T) {
	s := SummarizeGPS(nil)
	if s.HasTrack() {
		t.Error("empty track should report no track")
	}
	if s.DistanceKm != 0 {
		t.Errorf("DistanceKm = %v, want 0", s.DistanceKm)
	}
}
