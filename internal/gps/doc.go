package gps

// Package gps runs the receiver session for the clock: it feeds serial (or
// simulated) NMEA bytes through the parser and publishes immutable snapshots
// of the derived time, date and position.
//
// The parser, fix record and geodetic deriver are owned exclusively by the
// session goroutine; consumers only ever see Snapshot copies.
