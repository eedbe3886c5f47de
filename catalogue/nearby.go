package catalogue

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

// NearbyStops returns stops ordered by geodesic distance from the
// given location. At most limit results (pass 0 for no limit).
func (c *Catalogue) NearbyStops(lat, lon float64, limit int) []model.Stop {
	origin := orb.Point{lon, lat}

	stops := c.IterStops()
	sort.Slice(stops, func(i, j int) bool {
		di := geo.Distance(origin, stops[i].Point())
		dj := geo.Distance(origin, stops[j].Point())
		if di != dj {
			return di < dj
		}
		return stops[i].ID < stops[j].ID
	})

	if limit > 0 && len(stops) > limit {
		stops = stops[:limit]
	}
	return stops
}
