package gps

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestService_DisabledStartIsNoop(t *testing.T) {
	s := New(Config{Enable: false})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	snap := s.Snapshot()
	if snap.Enabled {
		t.Fatalf("expected disabled snapshot")
	}
	s.Close()
}

func TestService_UnknownSourceRejected(t *testing.T) {
	s := New(Config{Enable: true, Source: "carrier-pigeon"})
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected error for unknown source")
	}
	s.Close()
}

func TestService_SimSourcePublishesFixes(t *testing.T) {
	cfg := Config{
		Enable:         true,
		Source:         "sim",
		UTCOffsetHours: 0,
		Sim: SimConfig{
			CenterLatDeg: 40.7128,
			CenterLonDeg: -74.0060,
			RadiusNm:     0.5,
			Period:       120 * time.Second,
			SatsInUse:    8,
			SatsInView:   11,
			Interval:     10 * time.Millisecond,
		},
	}
	s := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Close()

	deadline := time.Now().Add(2 * time.Second)
	var snap Snapshot
	for time.Now().Before(deadline) {
		snap = s.Snapshot()
		if snap.Valid {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !snap.Valid || !snap.EverValid {
		t.Fatalf("no valid fix published: %+v", snap)
	}
	if snap.Source != "sim" {
		t.Fatalf("source=%q want sim", snap.Source)
	}
	if snap.ParsedSentences == 0 || snap.CRCFails != 0 {
		t.Fatalf("parsed=%d crc=%d", snap.ParsedSentences, snap.CRCFails)
	}
	// The simulated track circles NYC; derived outputs must agree.
	if snap.LatDeg < 40.6 || snap.LatDeg > 40.9 {
		t.Fatalf("lat=%v outside simulated track", snap.LatDeg)
	}
	if !strings.HasPrefix(snap.Maidenhead, "FN") {
		t.Fatalf("maidenhead=%q want FN field", snap.Maidenhead)
	}
	if !strings.HasPrefix(snap.UTM, "18T ") {
		t.Fatalf("utm=%q want zone 18T", snap.UTM)
	}
	if snap.SatsInUse != 8 || snap.SatsInView != 11 {
		t.Fatalf("sats=%d/%d", snap.SatsInUse, snap.SatsInView)
	}
	if len(snap.Time) != 8 || len(snap.Date) != 10 {
		t.Fatalf("time=%q date=%q", snap.Time, snap.Date)
	}
}

func TestSession_SnapshotBeforeAnyData(t *testing.T) {
	sess := newSession(0)
	snap := sess.snapshot(Snapshot{Enabled: true, Source: "serial"})

	if snap.Valid || snap.EverValid {
		t.Fatalf("fresh session must not report a fix")
	}
	if snap.Maidenhead != "------" {
		t.Fatalf("maidenhead=%q want placeholder", snap.Maidenhead)
	}
	if snap.Date != "----.--.--" {
		t.Fatalf("date=%q want placeholder", snap.Date)
	}
	if snap.FixType != "None" {
		t.Fatalf("fix_type=%q want None", snap.FixType)
	}
}

func TestSession_FeedAppliesUTCOffset(t *testing.T) {
	sess := newSession(-5)

	// 2024-03-01 00:12:19 UTC at offset -5 lands on leap day 2024-02-29.
	payload := "GPRMC,001219,A,4807.038,N,01131.000,E,022.4,084.4,010324,003.1,W"
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	line := "$" + payload + "*" + string([]byte{hexChar(ck >> 4), hexChar(ck & 0x0F)})

	if !sess.feed([]byte(line)) {
		t.Fatalf("sentence did not decode")
	}
	snap := sess.snapshot(Snapshot{})
	if snap.Time != "19:12:19" {
		t.Fatalf("time=%q want 19:12:19", snap.Time)
	}
	if snap.Date != "2024-02-29" {
		t.Fatalf("date=%q want 2024-02-29", snap.Date)
	}
}

func hexChar(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'A' + v - 10
}
