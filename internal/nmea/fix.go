package nmea

import "fmt"

// FixType is the solution type reported by GSA.
type FixType int

const (
	FixNone FixType = 1
	Fix2D   FixType = 2
	Fix3D   FixType = 3
)

func (t FixType) String() string {
	switch t {
	case Fix3D:
		return "3D"
	case Fix2D:
		return "2D"
	default:
		return "None"
	}
}

// Coordinate is a raw NMEA coordinate: whole degrees, decimal minutes and a
// hemisphere letter ('N'/'S' for latitude, 'E'/'W' for longitude).
type Coordinate struct {
	Degrees    int
	Minutes    float64
	Hemisphere byte
}

// Fix holds the most recent successfully framed-and-checksummed receiver data.
//
// One instance lives per receiver session and is mutated only by the Parser's
// decoders, one sentence-owned field group at a time. It is never reset once
// populated; across signal loss it keeps the last good values (staleness over
// corruption).
type Fix struct {
	// UTC time of day from RMC/GLL/GGA.
	Hour   int
	Minute int
	Second float64

	// Calendar date from RMC. All-zero means never received.
	Day   int
	Month int
	Year  int // two digits, 20xx

	Latitude  Coordinate
	Longitude Coordinate

	// Valid is the receiver data-valid flag from RMC/GLL ("A" status).
	// EverValid latches the first valid fix and is never cleared.
	Valid     bool
	EverValid bool

	// FixQuality is the GGA fix indicator (0 = no fix).
	FixQuality int
	// Type is set only by GSA.
	Type FixType

	SatellitesInUse  int
	SatellitesInView int

	// GSV sequence bookkeeping (last sentence wins, parts are not merged).
	TotalGSVSentences int
	LastGSVSentence   int

	SpeedKnots  float64
	CourseDeg   float64
	AltitudeM   float64
	GeoidHeight float64

	HDOP float64
	PDOP float64
	VDOP float64

	// Diagnostic counters.
	CleanSentences  int // checksum passed
	CRCFails        int // checksum mismatch
	ParsedSentences int // checksum passed, recognized and field-decoded
}

// NewFix returns a Fix with the zero-position sentinels in place.
func NewFix() *Fix {
	return &Fix{
		Latitude:  Coordinate{Hemisphere: 'N'},
		Longitude: Coordinate{Hemisphere: 'W'},
		Type:      FixNone,
	}
}

// Days per month, non-leap year.
var daysInMonthTable = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func daysInMonth(month, year int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return daysInMonthTable[month-1]
}

// TimeString formats the time of day as HH:MM:SS shifted by offsetHours,
// wrapping at midnight.
func (f *Fix) TimeString(offsetHours int) string {
	h := (f.Hour + offsetHours) % 24
	if h < 0 {
		h += 24
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, f.Minute, int(f.Second))
}

// DateString formats the calendar date as YYYY-MM-DD shifted by offsetHours,
// rolling the day across month and year boundaries when the local hour leaves
// [0,24). Returns a placeholder until a date has been received.
func (f *Fix) DateString(offsetHours int) string {
	d, m, y := f.Day, f.Month, f.Year
	if d == 0 && m == 0 && y == 0 {
		return "----.--.--"
	}
	year := 2000 + y
	localHour := f.Hour + offsetHours

	if localHour < 0 {
		d--
		if d < 1 {
			m--
			if m < 1 {
				m = 12
				year--
			}
			d = daysInMonth(m, year)
		}
	} else if localHour >= 24 {
		d++
		if d > daysInMonth(m, year) {
			d = 1
			m++
			if m > 12 {
				m = 1
				year++
			}
		}
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, m, d)
}

// LatString formats the latitude like "40.7128 N".
func (f *Fix) LatString() string {
	dec := float64(f.Latitude.Degrees) + f.Latitude.Minutes/60.0
	return fmt.Sprintf("%.4f %c", dec, f.Latitude.Hemisphere)
}

// LonString formats the longitude like "74.0060 W".
func (f *Fix) LonString() string {
	dec := float64(f.Longitude.Degrees) + f.Longitude.Minutes/60.0
	return fmt.Sprintf("%.4f %c", dec, f.Longitude.Hemisphere)
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection maps the current course to a 16-wind cardinal direction.
func (f *Fix) CompassDirection() string {
	var offset float64
	if f.CourseDeg >= 348.75 {
		offset = 360 - f.CourseDeg
	} else {
		offset = f.CourseDeg + 11.25
	}
	return compassPoints[int(offset/22.5)]
}

// SpeedString formats ground speed in "knots", "mph" or "kph" (default).
func (f *Fix) SpeedString(unit string) string {
	switch unit {
	case "knots":
		return fmt.Sprintf("%.1f kt", f.SpeedKnots)
	case "mph":
		return fmt.Sprintf("%.1f mph", f.SpeedKnots*1.151)
	default:
		return fmt.Sprintf("%.1f km/h", f.SpeedKnots*1.852)
	}
}
