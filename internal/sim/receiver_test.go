package sim

import (
	"math"
	"strings"
	"testing"
	"time"

	"gpsclock/internal/nmea"
)

func TestReceiverSim_Position_Invariants(t *testing.T) {
	s := ReceiverSim{
		CenterLatDeg: 45.0,
		CenterLonDeg: -122.0,
		RadiusNm:     1.0,
		Period:       60 * time.Second,
	}

	now := time.Date(2026, 8, 20, 19, 0, 0, 0, time.UTC)
	lat, lon, trk := s.Position(now)

	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsNaN(trk) {
		t.Fatalf("position invalid: %v %v %v", lat, lon, trk)
	}
	if trk < 0 || trk >= 360 {
		t.Fatalf("track out of range: %v", trk)
	}

	radiusDeg := s.RadiusNm / 60.0
	if math.Abs(lat-s.CenterLatDeg) > radiusDeg*1.01 {
		t.Fatalf("lat offset too large: %v", math.Abs(lat-s.CenterLatDeg))
	}
	maxLonDeg := radiusDeg / math.Cos(s.CenterLatDeg*math.Pi/180.0)
	if math.Abs(lon-s.CenterLonDeg) > maxLonDeg*1.01 {
		t.Fatalf("lon offset too large: %v", math.Abs(lon-s.CenterLonDeg))
	}
}

func TestReceiverSim_Position_Deterministic(t *testing.T) {
	s := ReceiverSim{CenterLatDeg: 1, CenterLonDeg: 2, RadiusNm: 0.5, Period: 120 * time.Second}
	now := time.Date(2026, 8, 20, 19, 0, 0, 123, time.UTC)

	lat1, lon1, trk1 := s.Position(now)
	lat2, lon2, trk2 := s.Position(now)
	if lat1 != lat2 || lon1 != lon2 || trk1 != trk2 {
		t.Fatalf("position not deterministic for a fixed instant")
	}
}

func TestReceiverSim_SentencesParseCleanly(t *testing.T) {
	s := ReceiverSim{
		CenterLatDeg: 40.7128,
		CenterLonDeg: -74.0060,
		RadiusNm:     0.5,
		Period:       120 * time.Second,
		GroundKt:     5,
		SatsInUse:    7,
		SatsInView:   11,
	}
	now := time.Date(2026, 8, 20, 12, 34, 56, 0, time.UTC)

	fix := nmea.NewFix()
	p := nmea.NewParser(fix)

	batch := s.Sentences(now)
	if len(batch) != 4 {
		t.Fatalf("batch size=%d want 4", len(batch))
	}
	surfaced := 0
	for _, line := range batch {
		if !strings.HasPrefix(line, "$") || !strings.HasSuffix(line, "\r\n") {
			t.Fatalf("bad framing: %q", line)
		}
		for i := 0; i < len(line); i++ {
			if _, ok := p.FeedByte(line[i]); ok {
				surfaced++
			}
		}
	}

	if surfaced != 4 {
		t.Fatalf("surfaced=%d want 4", surfaced)
	}
	if fix.CRCFails != 0 || fix.ParsedSentences != 4 {
		t.Fatalf("crc=%d parsed=%d", fix.CRCFails, fix.ParsedSentences)
	}
	if !fix.Valid {
		t.Fatalf("simulated RMC must be valid")
	}
	if fix.Hour != 12 || fix.Minute != 34 || int(fix.Second) != 56 {
		t.Fatalf("time=%02d:%02d:%v", fix.Hour, fix.Minute, fix.Second)
	}
	if fix.Day != 20 || fix.Month != 8 || fix.Year != 26 {
		t.Fatalf("date=%d-%d-%d", fix.Year, fix.Month, fix.Day)
	}
	if fix.SatellitesInUse != 7 || fix.SatellitesInView != 11 {
		t.Fatalf("sats=%d/%d", fix.SatellitesInUse, fix.SatellitesInView)
	}
	if fix.Type != nmea.Fix3D {
		t.Fatalf("fix type=%v", fix.Type)
	}

	// Round-tripped position stays within the track radius of the center.
	lat := float64(fix.Latitude.Degrees) + fix.Latitude.Minutes/60
	if fix.Latitude.Hemisphere == 'S' {
		lat = -lat
	}
	if math.Abs(lat-s.CenterLatDeg) > 0.02 {
		t.Fatalf("round-tripped lat=%v center=%v", lat, s.CenterLatDeg)
	}
}
