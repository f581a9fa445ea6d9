package dataset

import (
	"context"

	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

type aliasRecord struct {
	Alias     string `bson:"alias"`
	Canonical string `bson:"canonical"`
}

// Aliases 内置别名表合并数据集中的别名
func (l *Loader) Aliases(ctx context.Context, p *Path) (network.Aliases, error) {
	base := network.DefaultAliases()
	if p == nil {
		return base, nil
	}
	more := make(map[string]string)
	if p.IsFile() {
		if err := readJSON(p.File, &more); err != nil {
			return nil, err
		}
	} else {
		records, err := findAll[aliasRecord](ctx, l, p)
		if err != nil {
			return nil, err
		}
		more = lo.SliceToMap(records, func(r aliasRecord) (string, string) { return r.Alias, r.Canonical })
	}
	return base.Merge(more), nil
}
