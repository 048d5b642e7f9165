package nmea

import "strconv"

// Field decoders, one per supported sentence type. Each returns false when a
// required field fails to parse; the sentence then earns no parsed credit.
// Fields written before the failing one are not rolled back.

// parseClock parses an hhmmss.sss field. An empty field parses as the zero
// time.
func parseClock(s string) (hour, minute int, second float64, ok bool) {
	if s == "" {
		return 0, 0, 0, true
	}
	if len(s) < 5 {
		return 0, 0, 0, false
	}
	h, err := strconv.Atoi(s[0:2])
	if err != nil {
		return 0, 0, 0, false
	}
	m, err := strconv.Atoi(s[2:4])
	if err != nil {
		return 0, 0, 0, false
	}
	sec, err := strconv.ParseFloat(s[4:], 64)
	if err != nil {
		return 0, 0, 0, false
	}
	return h, m, sec, true
}

// parseCoordinate parses a ddmm.mmmm (latitude, degDigits=2) or dddmm.mmmm
// (longitude, degDigits=3) field plus its hemisphere field. Hemisphere
// letters are restricted to the pair belonging to the axis.
func parseCoordinate(v, hemi string, degDigits int, hemiA, hemiB byte) (Coordinate, bool) {
	if len(hemi) != 1 || (hemi[0] != hemiA && hemi[0] != hemiB) {
		return Coordinate{}, false
	}
	if len(v) <= degDigits {
		return Coordinate{}, false
	}
	deg, err := strconv.Atoi(v[:degDigits])
	if err != nil {
		return Coordinate{}, false
	}
	mins, err := strconv.ParseFloat(v[degDigits:], 64)
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{Degrees: deg, Minutes: mins, Hemisphere: hemi[0]}, true
}

func parseLat(v, hemi string) (Coordinate, bool) {
	return parseCoordinate(v, hemi, 2, 'N', 'S')
}

func parseLon(v, hemi string) (Coordinate, bool) {
	return parseCoordinate(v, hemi, 3, 'E', 'W')
}

// decodeRMC handles Recommended Minimum data: UTC time, date, and — when the
// receiver flags the data valid — position, speed and course.
//
//	0: talker+type  1: time      2: status (A/V)  3: lat   4: N/S
//	5: lon          6: E/W       7: speed (kt)    8: course
//	9: date (ddmmyy)
func decodeRMC(f *Fix, seg []string) bool {
	if len(seg) < 10 {
		return false
	}

	h, m, sec, ok := parseClock(seg[1])
	if !ok {
		return false
	}
	f.Hour, f.Minute, f.Second = h, m, sec

	if seg[9] == "" {
		f.Day, f.Month, f.Year = 0, 0, 0
	} else {
		if len(seg[9]) < 6 {
			return false
		}
		day, err1 := strconv.Atoi(seg[9][0:2])
		month, err2 := strconv.Atoi(seg[9][2:4])
		year, err3 := strconv.Atoi(seg[9][4:6])
		if err1 != nil || err2 != nil || err3 != nil {
			return false
		}
		f.Day, f.Month, f.Year = day, month, year
	}

	if seg[2] != "A" {
		// Void fix: position, speed and course revert to their sentinels.
		f.Latitude = Coordinate{Hemisphere: 'N'}
		f.Longitude = Coordinate{Hemisphere: 'W'}
		f.SpeedKnots = 0
		f.CourseDeg = 0
		f.Valid = false
		return true
	}

	lat, ok := parseLat(seg[3], seg[4])
	if !ok {
		return false
	}
	lon, ok := parseLon(seg[5], seg[6])
	if !ok {
		return false
	}
	speed, err := strconv.ParseFloat(seg[7], 64)
	if err != nil {
		return false
	}
	course := 0.0
	if seg[8] != "" {
		course, err = strconv.ParseFloat(seg[8], 64)
		if err != nil {
			return false
		}
	}

	f.Latitude = lat
	f.Longitude = lon
	f.SpeedKnots = speed
	f.CourseDeg = course
	f.Valid = true
	f.EverValid = true
	return true
}

// decodeGLL handles Geographic Position: UTC time plus position when the
// validity flag is "A".
//
//	0: talker+type  1: lat  2: N/S  3: lon  4: E/W  5: time  6: status
func decodeGLL(f *Fix, seg []string) bool {
	if len(seg) < 7 {
		return false
	}

	h, m, sec, ok := parseClock(seg[5])
	if !ok {
		return false
	}
	f.Hour, f.Minute, f.Second = h, m, sec

	if seg[6] != "A" {
		f.Latitude = Coordinate{Hemisphere: 'N'}
		f.Longitude = Coordinate{Hemisphere: 'W'}
		f.Valid = false
		return true
	}

	lat, ok := parseLat(seg[1], seg[2])
	if !ok {
		return false
	}
	lon, ok := parseLon(seg[3], seg[4])
	if !ok {
		return false
	}

	f.Latitude = lat
	f.Longitude = lon
	f.Valid = true
	f.EverValid = true
	return true
}

// decodeGGA handles GPS Fix Data: UTC time, satellites in use and fix quality
// unconditionally, position/altitude only while the quality indicator reports
// a fix. All writes happen after the last failure point, so a failing GGA
// leaves the fix untouched.
//
//	0: talker+type  1: time  2: lat   3: N/S  4: lon  5: E/W
//	6: fix quality  7: sats  8: HDOP  9: altitude (m)  10: M
//	11: geoid height (m)
func decodeGGA(f *Fix, seg []string) bool {
	if len(seg) < 8 {
		return false
	}

	h, m, sec, ok := parseClock(seg[1])
	if !ok {
		return false
	}
	sats, err := strconv.Atoi(seg[7])
	if err != nil {
		return false
	}
	quality, err := strconv.Atoi(seg[6])
	if err != nil {
		return false
	}

	hdop := 0.0
	if len(seg) > 8 {
		if v, err := strconv.ParseFloat(seg[8], 64); err == nil {
			hdop = v
		}
	}

	if quality != 0 {
		lat, ok := parseLat(seg[2], seg[3])
		if !ok {
			return false
		}
		lon, ok := parseLon(seg[4], seg[5])
		if !ok {
			return false
		}

		// Altitude and geoid height are best-effort; some receivers omit
		// them while still reporting a fix.
		alt, geoid := 0.0, 0.0
		if len(seg) > 11 {
			a, err1 := strconv.ParseFloat(seg[9], 64)
			g, err2 := strconv.ParseFloat(seg[11], 64)
			if err1 == nil && err2 == nil {
				alt, geoid = a, g
			}
		}

		f.Latitude = lat
		f.Longitude = lon
		f.AltitudeM = alt
		f.GeoidHeight = geoid
	}

	f.Hour, f.Minute, f.Second = h, m, sec
	f.SatellitesInUse = sats
	f.HDOP = hdop
	f.FixQuality = quality
	return true
}

// decodeGSA handles DOP and Active Satellites: the fix type plus the three
// dilution-of-precision values.
//
//	0: talker+type  1: mode  2: fix type (1/2/3)  3-14: satellite IDs
//	15: PDOP  16: HDOP  17: VDOP
func decodeGSA(f *Fix, seg []string) bool {
	if len(seg) < 18 {
		return false
	}

	fixType, err := strconv.Atoi(seg[2])
	if err != nil {
		return false
	}
	pdop, err1 := strconv.ParseFloat(seg[15], 64)
	hdop, err2 := strconv.ParseFloat(seg[16], 64)
	vdop, err3 := strconv.ParseFloat(seg[17], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}

	f.Type = FixType(fixType)
	f.PDOP = pdop
	f.HDOP = hdop
	f.VDOP = vdop
	return true
}

// decodeGSV handles Satellites in View: sequence bookkeeping and the visible
// count. A later GSV always overwrites the count; parts are not merged.
//
//	0: talker+type  1: total sentences  2: sentence number  3: sats in view
func decodeGSV(f *Fix, seg []string) bool {
	if len(seg) < 4 {
		return false
	}

	total, err1 := strconv.Atoi(seg[1])
	current, err2 := strconv.Atoi(seg[2])
	inView, err3 := strconv.Atoi(seg[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}

	f.TotalGSVSentences = total
	f.LastGSVSentence = current
	f.SatellitesInView = inView
	return true
}
