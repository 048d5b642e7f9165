package nmea

// Package nmea implements a byte-driven NMEA-0183 sentence parser for GNSS
// receivers, feeding a long-lived Fix record.
//
// It is intentionally small and geared toward the gpsclock core:
// - Frame and checksum sentences one byte at a time with a bounded buffer
// - Decode RMC/GLL for time/date/position, GGA for fix data, GSA/GSV for
//   satellite status
// - Absorb all malformed input into diagnostic counters; the feed never fails
