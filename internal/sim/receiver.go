// Package sim generates deterministic NMEA sentence batches for bring-up and
// testing without a physical receiver.
package sim

import (
	"fmt"
	"math"
	"time"
)

// ReceiverSim models a receiver moving on a circular track around a center
// point, emitting the sentence mix of a real GNSS module (RMC, GGA, GSA,
// GSV). Position is a pure function of wall-clock time, so batches are
// reproducible for a given instant.
type ReceiverSim struct {
	CenterLatDeg float64
	CenterLonDeg float64
	RadiusNm     float64
	Period       time.Duration
	GroundKt     int

	SatsInUse  int
	SatsInView int
}

// Position returns the simulated position and track for the given instant.
func (s ReceiverSim) Position(now time.Time) (latDeg, lonDeg, trackDeg float64) {
	period := s.Period
	if period <= 0 {
		period = 120 * time.Second
	}
	radiusNm := s.RadiusNm
	if radiusNm <= 0 {
		radiusNm = 0.5
	}

	// NM to degrees latitude (~60 NM per degree).
	radiusDeg := radiusNm / 60.0

	phase := float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())
	w := 2 * math.Pi * phase

	latDeg = s.CenterLatDeg + radiusDeg*math.Sin(w)
	lonDeg = s.CenterLonDeg + radiusDeg*math.Cos(w)/math.Cos(s.CenterLatDeg*math.Pi/180)

	// Tangent of a counter-clockwise circle traversed with increasing w.
	trackDeg = math.Mod(360-phase*360+360, 360)
	return latDeg, lonDeg, trackDeg
}

// Sentences returns one framed, checksummed sentence batch for the instant.
func (s ReceiverSim) Sentences(now time.Time) []string {
	lat, lon, trk := s.Position(now)
	utc := now.UTC()

	clock := fmt.Sprintf("%02d%02d%02d.00", utc.Hour(), utc.Minute(), utc.Second())
	date := fmt.Sprintf("%02d%02d%02d", utc.Day(), int(utc.Month()), utc.Year()%100)
	latField, latHemi := encodeLat(lat)
	lonField, lonHemi := encodeLon(lon)

	groundKt := s.GroundKt
	if groundKt <= 0 {
		groundKt = 4
	}
	satsInUse := s.SatsInUse
	if satsInUse <= 0 {
		satsInUse = 8
	}
	satsInView := s.SatsInView
	if satsInView < satsInUse {
		satsInView = satsInUse + 2
	}

	rmc := fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,%05.1f,%05.1f,%s,,",
		clock, latField, latHemi, lonField, lonHemi, float64(groundKt), trk, date)
	gga := fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,%02d,0.9,25.0,M,47.0,M,,",
		clock, latField, latHemi, lonField, lonHemi, satsInUse)
	gsa := "GPGSA,A,3,01,02,03,04,05,06,07,08,,,,,1.8,0.9,1.5"
	gsv := fmt.Sprintf("GPGSV,1,1,%02d,01,40,083,41,02,17,308,43,03,07,344,39,04,22,228,45", satsInView)

	return []string{frame(rmc), frame(gga), frame(gsa), frame(gsv)}
}

// frame wraps a payload in NMEA framing: '$', payload, '*', XOR checksum,
// CRLF.
func frame(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}

// encodeLat renders decimal degrees as the NMEA ddmm.mmmm field plus
// hemisphere.
func encodeLat(dec float64) (field, hemi string) {
	hemi = "N"
	if dec < 0 {
		hemi = "S"
		dec = -dec
	}
	deg := int(dec)
	mins := (dec - float64(deg)) * 60
	return fmt.Sprintf("%02d%07.4f", deg, mins), hemi
}

// encodeLon renders decimal degrees as the NMEA dddmm.mmmm field plus
// hemisphere.
func encodeLon(dec float64) (field, hemi string) {
	hemi = "E"
	if dec < 0 {
		hemi = "W"
		dec = -dec
	}
	deg := int(dec)
	mins := (dec - float64(deg)) * 60
	return fmt.Sprintf("%03d%07.4f", deg, mins), hemi
}
