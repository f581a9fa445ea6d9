package dataset

import (
	"context"

	"git.fiblab.net/sim/tripplanner/router/crowd"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ridership 客流快照，集合按日期升序读取
func (l *Loader) Ridership(ctx context.Context, p *Path) (crowd.Ridership, error) {
	if p == nil {
		log.Debug("no ridership configured, use default daily ridership")
		return nil, nil
	}
	if p.IsFile() {
		var r crowd.Ridership
		if err := readJSON(p.File, &r); err != nil {
			return nil, err
		}
		return r, nil
	}
	docs, err := findAll[bson.M](ctx, l, p, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return lo.Map(docs, func(m bson.M, _ int) crowd.RidershipRow { return crowd.RowFromMap(m) }), nil
}
