package geo

import "math"

// WGS84 ellipsoid and transverse Mercator scale.
const (
	wgs84A          = 6378137.0
	wgs84Flattening = 1 / 298.257223563
	utmScale        = 0.9996
)

// utmBands covers latitudes [-80,84) in 8-degree rows; outside that range the
// letter clamps to the nearest band.
const utmBands = "CDEFGHJKLMNPQRSTUVWX"

func utmBand(lat float64) byte {
	if lat >= 84 {
		return 'X'
	}
	if lat < -80 {
		return 'C'
	}
	idx := int((lat + 80) / 8)
	if idx > len(utmBands)-1 {
		idx = len(utmBands) - 1
	}
	return utmBands[idx]
}

// utmProject converts a WGS84 position to UTM easting/northing in meters
// using the Redfearn series. Southern-hemisphere northings carry the
// 10,000,000 m false northing.
func utmProject(lat, lon float64) (zone int, easting, northing float64) {
	zone = int((lon+180)/6) + 1
	centralMeridian := float64((zone-1)*6 - 180 + 3)

	e2 := 2*wgs84Flattening - wgs84Flattening*wgs84Flattening
	ep2 := e2 / (1 - e2)

	latRad := lat * math.Pi / 180
	dLon := (lon - centralMeridian) * math.Pi / 180

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	// Radius of curvature in the prime vertical and the series terms.
	n := wgs84A / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * dLon

	// Meridional arc, fourth-order in eccentricity.
	m := wgs84A * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*latRad -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*latRad) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*latRad) -
		(35*e2*e2*e2/3072)*math.Sin(6*latRad))

	easting = utmScale*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + 500000

	northing = utmScale * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if lat < 0 {
		northing += 10000000
	}
	return zone, easting, northing
}
