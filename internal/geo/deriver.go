// Package geo derives display-ready geodetic representations (decimal
// degrees, Maidenhead locator, UTM coordinates) from a live NMEA fix record,
// caching each output until its source fields change.
package geo

import (
	"fmt"

	"gpsclock/internal/nmea"
)

// Placeholders shown until the receiver has ever obtained a valid fix.
const (
	noFixLocator = "------"
	noFixUTM     = "--- ------E -------N"
)

// Deriver computes geodetic views over a read-only fix record.
//
// It shares the fix's single-owner model: one polling loop reads the fix and
// the deriver, with no synchronization of its own. Each derived value is
// recomputed only when its tracked source value differs from the previous
// call; otherwise the stored result is returned as-is.
type Deriver struct {
	fix *nmea.Fix

	latKey    nmea.Coordinate
	latDec    float64
	latCached bool

	lonKey    nmea.Coordinate
	lonDec    float64
	lonCached bool

	gridLat, gridLon float64
	grid             string
	gridCached       bool

	utmLat, utmLon float64
	utm            string
	utmCached      bool

	// Computation counts, used by tests to assert cache hits.
	gridComputations int
	utmComputations  int
}

// NewDeriver returns a deriver over the given fix.
func NewDeriver(fix *nmea.Fix) *Deriver {
	return &Deriver{fix: fix}
}

// LatitudeDecimal returns the signed decimal latitude (positive north).
//
// The cache key is the full raw (degrees, minutes, hemisphere) tuple, so a
// degrees-only change invalidates correctly even when minutes repeat.
func (d *Deriver) LatitudeDecimal() float64 {
	raw := d.fix.Latitude
	if d.latCached && raw == d.latKey {
		return d.latDec
	}
	dec := float64(raw.Degrees) + raw.Minutes/60.0
	if raw.Hemisphere == 'S' {
		dec = -dec
	}
	d.latKey = raw
	d.latDec = dec
	d.latCached = true
	return dec
}

// LongitudeDecimal returns the signed decimal longitude (positive east).
func (d *Deriver) LongitudeDecimal() float64 {
	raw := d.fix.Longitude
	if d.lonCached && raw == d.lonKey {
		return d.lonDec
	}
	dec := float64(raw.Degrees) + raw.Minutes/60.0
	if raw.Hemisphere == 'W' {
		dec = -dec
	}
	d.lonKey = raw
	d.lonDec = dec
	d.lonCached = true
	return dec
}

// Maidenhead returns the 6-character grid locator for the current position,
// or a placeholder until a fix has ever been obtained. The result is cached
// on exact equality of the decimal (lat, lon) pair.
func (d *Deriver) Maidenhead() string {
	if !d.fix.EverValid {
		return noFixLocator
	}
	lat := d.LatitudeDecimal()
	lon := d.LongitudeDecimal()
	if d.gridCached && lat == d.gridLat && lon == d.gridLon {
		return d.grid
	}

	d.gridComputations++

	// Shift both axes non-negative, then partition: 20°/2°/5' in longitude,
	// 10°/1°/2.5' in latitude.
	glon := lon + 180.0
	glat := lat + 90.0

	lonField := int(glon / 20)
	latField := int(glat / 10)
	lonSq := int((glon - float64(lonField)*20) / 2)
	latSq := int(glat - float64(latField)*10)
	lonSub := int((glon - float64(lonField)*20 - float64(lonSq)*2) * 12)
	latSub := int((glat - float64(latField)*10 - float64(latSq)) * 24)

	d.grid = fmt.Sprintf("%c%c%c%c%c%c",
		'A'+lonField, 'A'+latField,
		'0'+lonSq, '0'+latSq,
		'a'+lonSub, 'a'+latSub)
	d.gridLat = lat
	d.gridLon = lon
	d.gridCached = true
	return d.grid
}

// UTM returns the current position projected to UTM as
// "<zone><band> <easting>E <northing>N", or a placeholder until a fix has
// ever been obtained. Cached like Maidenhead.
func (d *Deriver) UTM() string {
	if !d.fix.EverValid {
		return noFixUTM
	}
	lat := d.LatitudeDecimal()
	lon := d.LongitudeDecimal()
	if d.utmCached && lat == d.utmLat && lon == d.utmLon {
		return d.utm
	}

	d.utmComputations++

	zone, easting, northing := utmProject(lat, lon)
	d.utm = fmt.Sprintf("%d%c %06.0fE %07.0fN", zone, utmBand(lat), easting, northing)
	d.utmLat = lat
	d.utmLon = lon
	d.utmCached = true
	return d.utm
}
