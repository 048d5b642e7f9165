package geo

import (
	"math"
	"testing"

	"gpsclock/internal/nmea"
)

func fixAt(latDeg int, latMin float64, latHemi byte, lonDeg int, lonMin float64, lonHemi byte) *nmea.Fix {
	f := nmea.NewFix()
	f.Latitude = nmea.Coordinate{Degrees: latDeg, Minutes: latMin, Hemisphere: latHemi}
	f.Longitude = nmea.Coordinate{Degrees: lonDeg, Minutes: lonMin, Hemisphere: lonHemi}
	f.Valid = true
	f.EverValid = true
	return f
}

func TestDecimalConversion(t *testing.T) {
	f := fixAt(40, 42.768, 'N', 74, 0.360, 'W')
	d := NewDeriver(f)

	if got := d.LatitudeDecimal(); math.Abs(got-40.7128) > 1e-9 {
		t.Fatalf("lat=%v want 40.7128", got)
	}
	if got := d.LongitudeDecimal(); math.Abs(got-(-74.0060)) > 1e-9 {
		t.Fatalf("lon=%v want -74.0060", got)
	}
}

func TestDecimalConversion_SouthEast(t *testing.T) {
	f := fixAt(33, 52.128, 'S', 151, 12.558, 'E')
	d := NewDeriver(f)

	if got := d.LatitudeDecimal(); math.Abs(got-(-33.8688)) > 1e-9 {
		t.Fatalf("lat=%v want -33.8688", got)
	}
	if got := d.LongitudeDecimal(); math.Abs(got-151.2093) > 1e-9 {
		t.Fatalf("lon=%v want 151.2093", got)
	}
}

func TestDecimalConversion_DegreesOnlyChangeInvalidates(t *testing.T) {
	f := fixAt(40, 42.768, 'N', 74, 0.360, 'W')
	d := NewDeriver(f)

	first := d.LatitudeDecimal()

	// Same minutes, different degrees: the full-tuple cache key must notice.
	f.Latitude.Degrees = 41
	second := d.LatitudeDecimal()
	if math.Abs(second-(first+1)) > 1e-9 {
		t.Fatalf("stale decimal after degrees-only change: first=%v second=%v", first, second)
	}
}

func TestMaidenhead(t *testing.T) {
	cases := []struct {
		name string
		fix  *nmea.Fix
		want string
	}{
		// W1AW, Newington CT.
		{"W1AW", fixAt(41, 42.8865, 'N', 72, 43.6356, 'W'), "FN31pr"},
		{"NewYork", fixAt(40, 42.768, 'N', 74, 0.360, 'W'), "FN20xr"},
		{"Sydney", fixAt(33, 52.128, 'S', 151, 12.558, 'E'), "QF56od"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDeriver(c.fix)
			if got := d.Maidenhead(); got != c.want {
				t.Fatalf("Maidenhead=%q want %q", got, c.want)
			}
		})
	}
}

func TestMaidenhead_PlaceholderUntilFirstFix(t *testing.T) {
	f := nmea.NewFix()
	d := NewDeriver(f)

	if got := d.Maidenhead(); got != "------" {
		t.Fatalf("Maidenhead=%q want placeholder", got)
	}
	if d.gridComputations != 0 {
		t.Fatalf("placeholder must not run the encoder")
	}
}

func TestMaidenhead_CachedUntilPositionChanges(t *testing.T) {
	f := fixAt(41, 42.8865, 'N', 72, 43.6356, 'W')
	d := NewDeriver(f)

	first := d.Maidenhead()
	second := d.Maidenhead()
	if first != second {
		t.Fatalf("idempotent reads differ: %q vs %q", first, second)
	}
	if d.gridComputations != 1 {
		t.Fatalf("gridComputations=%d want 1", d.gridComputations)
	}

	f.Latitude.Minutes = 50.0
	if got := d.Maidenhead(); got == first {
		t.Fatalf("locator unchanged after position change")
	}
	if d.gridComputations != 2 {
		t.Fatalf("gridComputations=%d want 2", d.gridComputations)
	}
}

func TestUTM(t *testing.T) {
	cases := []struct {
		name string
		fix  *nmea.Fix
		want string
	}{
		{"NewYork", fixAt(40, 42.768, 'N', 74, 0.360, 'W'), "18T 583959E 4507351N"},
		{"Sydney", fixAt(33, 52.128, 'S', 151, 12.558, 'E'), "56H 334369E 6250948N"},
		// On the central meridian of zone 31 at the equator the projection
		// is exact: false easting only, zero northing.
		{"EquatorCentralMeridian", fixAt(0, 0, 'N', 3, 0, 'E'), "31N 500000E 0000000N"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDeriver(c.fix)
			if got := d.UTM(); got != c.want {
				t.Fatalf("UTM=%q want %q", got, c.want)
			}
		})
	}
}

func TestUTM_PlaceholderUntilFirstFix(t *testing.T) {
	f := nmea.NewFix()
	d := NewDeriver(f)

	if got := d.UTM(); got != "--- ------E -------N" {
		t.Fatalf("UTM=%q want placeholder", got)
	}
	if d.utmComputations != 0 {
		t.Fatalf("placeholder must not run the projection")
	}
}

func TestUTM_CachedUntilPositionChanges(t *testing.T) {
	f := fixAt(40, 42.768, 'N', 74, 0.360, 'W')
	d := NewDeriver(f)

	first := d.UTM()
	if d.UTM() != first {
		t.Fatalf("idempotent reads differ")
	}
	if d.utmComputations != 1 {
		t.Fatalf("utmComputations=%d want 1", d.utmComputations)
	}

	f.Longitude.Degrees = 73
	if got := d.UTM(); got == first {
		t.Fatalf("projection unchanged after position change")
	}
	if d.utmComputations != 2 {
		t.Fatalf("utmComputations=%d want 2", d.utmComputations)
	}
}

func TestUTMBand(t *testing.T) {
	cases := []struct {
		lat  float64
		want byte
	}{
		{0, 'N'},
		{40.7, 'T'},
		{48.9, 'U'},
		{-33.9, 'H'},
		{84.5, 'X'},   // clamped above the last band
		{-83.0, 'C'},  // clamped below the first band
		{79.9, 'X'},   // X is a 12-degree band, 72..84
		{-80.0, 'C'},
	}
	for _, c := range cases {
		if got := utmBand(c.lat); got != c.want {
			t.Fatalf("utmBand(%v)=%c want %c", c.lat, got, c.want)
		}
	}
}
