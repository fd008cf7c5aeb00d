package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	room := Coordinate{Lat: 48.7884, Lng: 2.3637}

	if d := Distance(room, room); d != 0 {
		t.Fatalf("expected zero distance, got %g", d)
	}

	// One ten-thousandth of a degree north is about 11.1 meters.
	near := Coordinate{Lat: room.Lat + 0.0001, Lng: room.Lng}
	if d := Distance(near, room); math.Abs(d-11.132) > 0.01 {
		t.Fatalf("expected ~11.132m, got %g", d)
	}
}

func TestEvaluate(t *testing.T) {
	room := Coordinate{Lat: 48.7884, Lng: 2.3637}

	cases := []struct {
		name      string
		observed  Coordinate
		threshold float64
		want      bool
	}{
		{"same point", room, 50, true},
		{"within radius", Coordinate{Lat: room.Lat + 0.0002, Lng: room.Lng}, 50, true},
		{"beyond radius", Coordinate{Lat: room.Lat + 0.002, Lng: room.Lng}, 50, false},
		{"about 200m away", Coordinate{Lat: room.Lat, Lng: room.Lng + 0.0018}, 50, false},
	}
	for _, tc := range cases {
		if got := Evaluate(&tc.observed, &room, tc.threshold); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestEvaluateBoundaryIsStrict(t *testing.T) {
	ref := Coordinate{}
	obs := Coordinate{Lat: 50.0 / metersPerDegree}
	d := Distance(obs, ref)
	if Evaluate(&obs, &ref, d) {
		t.Fatal("expected exactly-on-boundary to fail")
	}
	if !Evaluate(&obs, &ref, d+0.001) {
		t.Fatal("expected just-inside-boundary to pass")
	}
}

func TestEvaluateMissingCoordinates(t *testing.T) {
	room := Coordinate{Lat: 48.7884, Lng: 2.3637}
	if Evaluate(nil, &room, 50) {
		t.Fatal("missing observed coordinate must not verify")
	}
	if Evaluate(&room, nil, 50) {
		t.Fatal("missing reference coordinate must not verify")
	}
	if Evaluate(nil, nil, 50) {
		t.Fatal("missing both coordinates must not verify")
	}
}
