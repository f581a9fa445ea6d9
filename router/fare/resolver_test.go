package fare_test

import (
	"testing"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/fare"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func newResolver() *fare.Resolver {
	tables := fare.Tables{
		Lines: map[string]fare.Table{
			"kjl": {"KL Sentral||Masjid Jamek": 1.7},
		},
		CrossLines: map[string]fare.Table{
			"SP|KJ": {"MASJID JAMEK||BANDARAYA": 2.4},
		},
	}
	model := fare.Model{
		Lines: map[string]fare.LineModel{
			"KJ": {Base: lo.ToPtr(1.0), PerKm: lo.ToPtr(0.2), Min: lo.ToPtr(1.2), Max: lo.ToPtr(3.0)},
			"AG": {PerKm: lo.ToPtr(0.1)},
		},
		CrossLines: map[string]fare.CrossLineModel{
			"AG|KJ": {
				LineModel:       fare.LineModel{Base: lo.ToPtr(1.5), PerKm: lo.ToPtr(0.1), Max: lo.ToPtr(4.0)},
				TransferPenalty: lo.ToPtr(0.5),
			},
		},
		TransferFee: 0.2,
	}
	return fare.NewResolver(tables, model, network.DefaultAliases(), calc.DefaultConstants())
}

func TestFallback(t *testing.T) {
	r := newResolver()
	// 0.8 + 5*0.15 = 1.55 -> 1.6 -> 1.60
	q := r.Resolve(fare.Request{Line: "XYZ", DistanceKm: 5})
	assert.Equal(t, 1.6, q.Fare)
	assert.Equal(t, fare.SOURCE_FALLBACK, q.Source)
}

func TestStationTable(t *testing.T) {
	r := newResolver()
	// 别名、大小写、反向查询
	q := r.Resolve(fare.Request{Line: "KJ", DistanceKm: 3, From: "masjid  jamek", To: "kl sentral"})
	assert.Equal(t, 1.7, q.Fare)
	assert.Equal(t, fare.SOURCE_STATION_TABLE, q.Source)

	// 跨线路表
	q = r.Resolve(fare.Request{Line: "SP", Lines: []string{"KJ", "PH"}, DistanceKm: 4, From: "Bandaraya", To: "Masjid-Jamek"})
	assert.Equal(t, 2.4, q.Fare)
	assert.Equal(t, fare.SOURCE_STATION_TABLE, q.Source)
}

func TestCrossModel(t *testing.T) {
	r := newResolver()
	// 1.5 + 0.1*10 + 0.5*max(0,1) = 3.0
	q := r.Resolve(fare.Request{Line: "AG", Lines: []string{"KJ", "AG", "KJ"}, DistanceKm: 10})
	assert.Equal(t, 3.0, q.Fare)
	assert.Equal(t, fare.SOURCE_CROSS_MODEL, q.Source)
	// 2次换乘：1.5 + 1.0 + 1.0 = 3.5
	assert.Equal(t, 3.5, r.Fare(fare.Request{Line: "AG", Lines: []string{"KJ", "AG"}, DistanceKm: 10, Transfers: 2}))
	// 上限4.0
	assert.Equal(t, 4.0, r.Fare(fare.Request{Line: "AG", Lines: []string{"KJ", "AG"}, DistanceKm: 100}))

	// 无跨线路模型时落到线路模型
	q = r.Resolve(fare.Request{Line: "KJ", Lines: []string{"KJ", "MRT"}, DistanceKm: 5})
	assert.Equal(t, fare.SOURCE_LINE_MODEL, q.Source)
	assert.Equal(t, 2.0, q.Fare)
}

func TestLineModel(t *testing.T) {
	r := newResolver()
	// 下限1.2
	assert.Equal(t, 1.2, r.Fare(fare.Request{Line: "KJ", DistanceKm: 0.5}))
	// 1.0 + 0.2*4.3 = 1.86 -> 1.9
	assert.Equal(t, 1.9, r.Fare(fare.Request{Line: "kjl", DistanceKm: 4.3}))
	// 上限3.0
	assert.Equal(t, 3.0, r.Fare(fare.Request{Line: "KJ", DistanceKm: 40}))
	// base缺省使用全局0.8：0.8 + 0.1*7 = 1.5
	assert.Equal(t, 1.5, r.Fare(fare.Request{Line: "AGL", DistanceKm: 7}))
}

func TestZeroDistance(t *testing.T) {
	r := newResolver()
	q := r.Resolve(fare.Request{Line: "KJ", DistanceKm: 0})
	assert.Equal(t, 0.0, q.Fare)
	assert.Equal(t, fare.SOURCE_ZERO_DISTANCE, q.Source)
	// 票价表优先于零距离
	assert.Equal(t, 1.7, r.Fare(fare.Request{Line: "KJ", From: "KL Sentral", To: "Masjid Jamek"}))
}

func TestFareMonotonic(t *testing.T) {
	r := newResolver()
	for _, line := range []string{"KJ", "AG", "XYZ"} {
		prev := 0.0
		for d := 0.0; d <= 30; d += 0.25 {
			f := r.Fare(fare.Request{Line: line, DistanceKm: d})
			assert.GreaterOrEqual(t, f, prev, "line %s distance %v", line, d)
			prev = f
		}
	}
}

func TestTransferFee(t *testing.T) {
	r := newResolver()
	assert.Equal(t, 0.5, r.TransferFee("kjl", "AG"))
	assert.Equal(t, 0.2, r.TransferFee("KJ", "MRT"))
}

func TestPairKey(t *testing.T) {
	a := network.DefaultAliases()
	assert.Equal(t, "KJ|SP", fare.PairKey([]string{"PH", "kjl", "SP"}, a))
	assert.Equal(t, "", fare.PairKey([]string{"KJ", "KJL"}, a))
	assert.Equal(t, "", fare.PairKey(nil, a))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "HANG TUAH", fare.NormalizeName("  hang-tuah "))
	assert.Equal(t, "BUKIT NANAS", fare.NormalizeName("Bukit   Nana's"))
	assert.Equal(t, "A||B", fare.TableKey("a", " b"))
}
