package gps

import (
	"gpsclock/internal/geo"
	"gpsclock/internal/nmea"
)

// session bundles the parser, fix record and geodetic deriver behind a
// single owner, per the core's no-synchronization contract.
type session struct {
	fix       *nmea.Fix
	parser    *nmea.Parser
	deriver   *geo.Deriver
	utcOffset int
}

func newSession(utcOffsetHours int) *session {
	fix := nmea.NewFix()
	return &session{
		fix:       fix,
		parser:    nmea.NewParser(fix),
		deriver:   geo.NewDeriver(fix),
		utcOffset: utcOffsetHours,
	}
}

// feed drains a chunk of receiver bytes through the parser and reports
// whether any sentence completed decoding.
func (s *session) feed(buf []byte) bool {
	updated := false
	for _, b := range buf {
		if _, ok := s.parser.FeedByte(b); ok {
			updated = true
		}
	}
	return updated
}

// snapshot renders the current fix and derived values onto a base snapshot.
func (s *session) snapshot(base Snapshot) Snapshot {
	out := base
	out.Valid = s.fix.Valid
	out.EverValid = s.fix.EverValid
	out.Time = s.fix.TimeString(s.utcOffset)
	out.Date = s.fix.DateString(s.utcOffset)
	out.LatDeg = s.deriver.LatitudeDecimal()
	out.LonDeg = s.deriver.LongitudeDecimal()
	out.Maidenhead = s.deriver.Maidenhead()
	out.UTM = s.deriver.UTM()
	out.FixType = s.fix.Type.String()
	out.SatsInUse = s.fix.SatellitesInUse
	out.SatsInView = s.fix.SatellitesInView
	out.CleanSentences = s.fix.CleanSentences
	out.CRCFails = s.fix.CRCFails
	out.ParsedSentences = s.fix.ParsedSentences
	return out
}
