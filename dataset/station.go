package dataset

import (
	"context"
	"math"

	"git.fiblab.net/sim/tripplanner/router/geo"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

// StationRecord 站点数据记录，缺失坐标的站点不进入路网
type StationRecord struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Lat     *float64 `json:"lat" bson:"lat"`
	Lng     *float64 `json:"lng" bson:"lng"`
	RouteID string   `json:"route_id" bson:"route_id"`
}

func (r StationRecord) Station() *network.Station {
	return &network.Station{
		ID:   r.ID,
		Name: r.Name,
		Pos: geo.LatLng{
			Lat: lo.FromPtrOr(r.Lat, math.NaN()),
			Lng: lo.FromPtrOr(r.Lng, math.NaN()),
		},
		Line: r.RouteID,
	}
}

func (l *Loader) Stations(ctx context.Context, p *Path) ([]*network.Station, error) {
	if p == nil {
		return nil, ErrNotFound
	}
	records, err := load[StationRecord](ctx, l, p)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	log.Infof("loaded %d stations from %s", len(records), p)
	return lo.Map(records, func(r StationRecord, _ int) *network.Station { return r.Station() }), nil
}
