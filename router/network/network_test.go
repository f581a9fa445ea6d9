package network_test

import (
	"math"
	"testing"

	"git.fiblab.net/sim/tripplanner/router/geo"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func st(id, name, line string, lat, lng float64) *network.Station {
	return &network.Station{ID: id, Name: name, Line: line, Pos: geo.LatLng{Lat: lat, Lng: lng}}
}

// 两条线路：KJ三站（乱序输入），AG两站，Masjid Jamek为同名换乘
func fixture() []*network.Station {
	return []*network.Station{
		st("KJ12", "Pasar Seni", "KJ", 3.1424, 101.6953),
		st("KJ10", "Dang Wangi", "KJ", 3.1566, 101.7017),
		st("KJ11", "Masjid Jamek", "KJ", 3.1497, 101.6963),
		st("AG7", "Masjid Jamek ", "AG", 3.1498, 101.6966),
		st("AG8", "Plaza Rakyat", "AG", 3.1440, 101.7020),
		st("BAD", "No Coordinates", "AG", math.NaN(), 101.7),
	}
}

func TestBuildGraph(t *testing.T) {
	n := network.BuildGraph(fixture())
	assert.Equal(t, 5, n.Len())
	_, ok := n.Station("BAD")
	assert.False(t, ok)

	// 同线路按编号排序后相邻
	assert.ElementsMatch(t, []string{"KJ11"}, n.Neighbors("KJ10"))
	assert.Contains(t, n.Neighbors("KJ11"), "KJ10")
	assert.Contains(t, n.Neighbors("KJ11"), "KJ12")
	assert.NotContains(t, n.Neighbors("KJ10"), "KJ12")

	// 换乘边：同名（忽略大小写与空白）
	assert.Contains(t, n.Neighbors("KJ11"), "AG7")
	assert.Contains(t, n.Neighbors("AG7"), "AG8")

	assert.Equal(t, 3, n.LineStationCount("KJ"))
	assert.Equal(t, 2, n.LineStationCount("AG"))
	assert.Equal(t, 0, n.LineStationCount("MRT"))

	kj11, _ := n.Station("KJ11")
	kj10, _ := n.Station("KJ10")
	assert.True(t, n.IsInterchange(kj11))
	assert.False(t, n.IsInterchange(kj10))
}

func TestBuildGraphSymmetry(t *testing.T) {
	n := network.BuildGraph(fixture())
	for _, s := range n.Stations() {
		for _, nb := range n.Neighbors(s.ID) {
			assert.NotEqual(t, s.ID, nb)
			assert.Contains(t, n.Neighbors(nb), s.ID, "%s->%s", s.ID, nb)
		}
	}
}

func TestBuildGraphTransferByDistance(t *testing.T) {
	n := network.BuildGraph([]*network.Station{
		st("A1", "Alpha", "L1", 3.0, 101.0),
		// 约111m
		st("B1", "Beta", "L2", 3.001, 101.0),
		// 约333m
		st("C1", "Gamma", "L3", 3.003, 101.0),
	})
	assert.Contains(t, n.Neighbors("A1"), "B1")
	assert.NotContains(t, n.Neighbors("A1"), "C1")
	// B1与C1相距约222m
	assert.Contains(t, n.Neighbors("B1"), "C1")
}

func TestBuildGraphLexicalFallback(t *testing.T) {
	n := network.BuildGraph([]*network.Station{
		st("charlie", "C", "X", 3.0, 101.0),
		st("alpha", "A", "X", 3.1, 101.0),
		st("bravo", "B", "X", 3.2, 101.0),
	})
	assert.Equal(t, []string{"bravo"}, n.Neighbors("alpha"))
	assert.ElementsMatch(t, []string{"alpha", "charlie"}, n.Neighbors("bravo"))
}

func TestBuildGraphEmpty(t *testing.T) {
	n := network.BuildGraph(nil)
	assert.Equal(t, 0, n.Len())
	assert.Nil(t, n.Neighbors("X"))
	s, _ := n.Nearest(geo.LatLng{Lat: 3, Lng: 101})
	assert.Nil(t, s)
}

type fixedTrack struct{ km float64 }

func (f fixedTrack) TrackKm(a, b *network.Station) (float64, bool) { return f.km, true }

func TestLegKm(t *testing.T) {
	stations := fixture()
	plain := network.BuildGraph(stations)
	a, _ := plain.Station("KJ10")
	b, _ := plain.Station("KJ11")
	hav := geo.HaversineKm(a.Pos, b.Pos)
	assert.InDelta(t, hav, plain.LegKm(a, b), 1e-12)

	withTrack := network.BuildGraph(stations, network.WithTrackDistance(fixedTrack{km: 1.234}))
	a, _ = withTrack.Station("KJ10")
	b, _ = withTrack.Station("KJ11")
	assert.Equal(t, 1.234, withTrack.LegKm(a, b))
	// 不同线路不使用覆盖
	c, _ := withTrack.Station("AG7")
	assert.InDelta(t, geo.HaversineKm(b.Pos, c.Pos), withTrack.LegKm(b, c), 1e-12)

	// 非正值不覆盖
	zero := network.BuildGraph(stations, network.WithTrackDistance(fixedTrack{km: 0}))
	a, _ = zero.Station("KJ10")
	b, _ = zero.Station("KJ11")
	assert.InDelta(t, hav, zero.LegKm(a, b), 1e-12)
}

func TestAliases(t *testing.T) {
	a := network.DefaultAliases()
	assert.Equal(t, "KJ", a.Normalize(" kjl "))
	assert.Equal(t, "SP", a.Normalize("PH"))
	assert.Equal(t, "MRT", a.Normalize("MRT_SBK"))
	assert.Equal(t, "PYL", a.Normalize("pyl"))
	assert.Equal(t, "", a.Normalize("  "))

	merged := a.Merge(map[string]string{"pyl": "mrt2"})
	assert.Equal(t, "MRT2", merged.Normalize("PYL"))
	assert.Equal(t, "PYL", a.Normalize("PYL"))
}

func TestWithCrowd(t *testing.T) {
	n := network.BuildGraph(fixture())
	m := n.WithCrowd(map[string]float64{"KJ11": 0.4})
	old, _ := n.Station("KJ11")
	updated, _ := m.Station("KJ11")
	require.NotNil(t, updated.Crowd)
	assert.Equal(t, 0.4, updated.CrowdLevel())
	assert.Nil(t, old.Crowd)
	assert.Equal(t, n.Neighbors("KJ11"), m.Neighbors("KJ11"))
}

func TestNearest(t *testing.T) {
	n := network.BuildGraph(fixture())
	s, d := n.Nearest(geo.LatLng{Lat: 3.1566, Lng: 101.7018})
	assert.Equal(t, "KJ10", s.ID)
	assert.Less(t, d, 20.0)
}
