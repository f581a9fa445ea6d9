package crowd_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"git.fiblab.net/sim/tripplanner/router/geo"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ridership(t *testing.T) crowd.Ridership {
	var r crowd.Ridership
	require.NoError(t, json.Unmarshal([]byte(`[
		{"date": "2024-01-01", "rail_mrt_kajang": "1", "rail_lrt_kj": 10},
		{"date": "2024-01-02", "rail_mrt_kajang": "80000", "rail_lrt_kj": 0, "rail_lrt_ampang": "bad"}
	]`), &r))
	return r
}

func TestRidership(t *testing.T) {
	r := ridership(t)
	v, ok := r.Latest("rail_mrt_kajang")
	assert.True(t, ok)
	assert.Equal(t, 80000.0, v)
	_, ok = r.Latest("rail_lrt_ampang")
	assert.False(t, ok)
	assert.Equal(t, "2024-01-02", r[1].Date)
	_, ok = crowd.Ridership(nil).Latest("rail_mrt_kajang")
	assert.False(t, ok)
}

func TestCrowdLevel(t *testing.T) {
	m := crowd.NewModel(crowd.DefaultParams(), nil, nil)
	// 80000/16/20 = 250，晚高峰*1.5 = 375，375/(8000*5) = 0.009375 -> 0.009
	level := m.CrowdLevel(crowd.CrowdInput{Daily: 80000, LineStations: 20, Hour: 18, Capacity: 8000})
	assert.Equal(t, 0.009, level)
	// 非高峰 250/40000 = 0.00625 -> 0.006
	assert.Equal(t, 0.006, m.CrowdLevel(crowd.CrowdInput{Daily: 80000, LineStations: 20, Hour: 13, Capacity: 8000}))
	assert.Equal(t, 0.0, m.CrowdLevel(crowd.CrowdInput{Daily: 0, LineStations: 20, Hour: 18, Capacity: 8000}))
	// 截断到1
	assert.Equal(t, 1.0, m.CrowdLevel(crowd.CrowdInput{Daily: 1e9, LineStations: 1, Hour: 9, Capacity: 10, Busy: 1.6, Interchange: true}))
}

func mrtLine(n int) []*network.Station {
	out := make([]*network.Station, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &network.Station{
			ID:   fmt.Sprintf("MRT%d", i),
			Name: fmt.Sprintf("Stop %d", i),
			Line: "MRT",
			Pos:  geo.LatLng{Lat: 3 + float64(i)*0.01, Lng: 101.6},
		})
	}
	return out
}

func TestStationCrowd(t *testing.T) {
	stations := mrtLine(20)
	stations[4].Name = "KL Sentral"
	stations = append(stations,
		&network.Station{ID: "BRT1", Name: "Sunway", Line: "BRT", Pos: geo.LatLng{Lat: 2.9, Lng: 101.5}},
	)
	n := network.BuildGraph(stations)
	m := crowd.NewModel(crowd.DefaultParams(), ridership(t), nil)

	plain, _ := n.Station("MRT1")
	assert.Equal(t, 0.009, m.StationCrowd(n, plain, 18))

	// 繁忙站与换乘站：375*1.6*1.2/40000 = 0.018
	sentral, _ := n.Station("MRT5")
	assert.Equal(t, 0.018, m.StationCrowd(n, sentral, 18))

	// 无客流列的线路返回缓存值
	brt, _ := n.Station("BRT1")
	assert.Equal(t, 0.0, m.StationCrowd(n, brt, 18))
	assert.Equal(t, 0.25, m.StationCrowd(n, brt.WithCrowd(0.25), 18))

	levels := m.Refresh(n, 18)
	assert.Len(t, levels, 21)
	assert.Equal(t, 0.018, levels["MRT5"])
}

func TestComfortScore(t *testing.T) {
	m := crowd.NewModel(crowd.DefaultParams(), ridership(t), nil)

	// 默认日客流100000：(1/3/4 + 0)/2 = 0.041666...，非高峰
	s := m.ComfortScore(crowd.Segment{Mode: calc.MODE_TRANSIT, Line: "BRT", Stops: 4}, 12)
	assert.InDelta(t, 1.0/3/4/2, s, 1e-12)

	// 客流80000，实时拥挤度均值0.3，早高峰1.4
	s = m.ComfortScore(crowd.Segment{
		Mode: calc.MODE_TRANSIT, Line: "MRT", Stops: 2,
		CrowdFrom: lo.ToPtr(0.2), CrowdTo: lo.ToPtr(0.4),
	}, 8)
	assert.InDelta(t, (80000.0/300000/2+0.3)/2*1.4, s, 1e-12)

	// 步行不受高峰影响
	assert.InDelta(t, 0.3, m.ComfortScore(crowd.Segment{Mode: calc.MODE_WALK, DistanceKm: 2}, 18), 1e-12)
	assert.Equal(t, 0.0, m.ComfortScore(crowd.Segment{Mode: calc.MODE_GRAB, DistanceKm: 12}, 18))

	// 换乘惩罚
	assert.InDelta(t, 0.6, m.ComfortScore(crowd.Segment{Mode: calc.MODE_GRAB, Transfer: true, TransferCount: 2}, 18), 1e-12)
	assert.InDelta(t, 0.3, m.ComfortScore(crowd.Segment{Mode: calc.MODE_GRAB, Transfer: true}, 18), 1e-12)
}

func TestComfortClamp(t *testing.T) {
	m := crowd.NewModel(crowd.DefaultParams(), ridership(t), nil)
	for _, seg := range []crowd.Segment{
		{Mode: calc.MODE_WALK, DistanceKm: 100},
		{Mode: calc.MODE_WALK, DistanceKm: -5},
		{Mode: calc.MODE_TRANSIT, Line: "KJ", Stops: 1, CrowdFrom: lo.ToPtr(1.0), CrowdTo: lo.ToPtr(1.0), Transfer: true, TransferCount: 20},
		{Mode: calc.MODE_TRANSIT},
	} {
		for hour := 0; hour < 24; hour++ {
			s := m.ComfortScore(seg, hour)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 3.0)
		}
	}
}

func TestRowFromMap(t *testing.T) {
	row := crowd.RowFromMap(map[string]any{
		"date":            "2024-02-01",
		"rail_lrt_kj":     int32(60000),
		"rail_mrt_kajang": int64(80000),
		"rail_monorail":   " 30000 ",
		"rail_mrt_pjy":    nil,
	})
	assert.Equal(t, "2024-02-01", row.Date)
	assert.Equal(t, map[string]float64{
		"rail_lrt_kj":     60000,
		"rail_mrt_kajang": 80000,
		"rail_monorail":   30000,
	}, row.Counts)
}
