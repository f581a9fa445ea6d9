package algo_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/mathutil"
	"git.fiblab.net/sim/tripplanner/router/algo"
	"github.com/stretchr/testify/assert"
)

// 测试用边权：节点属性为一维坐标，边权为坐标差的绝对值
type TestWeight1 struct {
}

func (w TestWeight1) EdgeWeight(from, to float64) float64 {
	if to > from {
		return to - from
	}
	return from - to
}

func TestSearchGraph(t *testing.T) {
	g := algo.NewSearchGraph[float64]()

	// 初始化点
	n1 := g.InitNode(0)
	n2 := g.InitNode(1)
	n3 := g.InitNode(2)
	n4 := g.InitNode(3)

	// 初始化边
	for _, e := range [][2]int{{n1, n2}, {n2, n3}, {n3, n4}} {
		added, err := g.InitEdge(e[0], e[1])
		assert.NoError(t, err)
		assert.True(t, added)
	}
	// 重复边与自环
	added, err := g.InitEdge(n2, n1)
	assert.NoError(t, err)
	assert.False(t, added)
	_, err = g.InitEdge(n1, n1)
	assert.ErrorIs(t, err, algo.ErrSelfEdge)
	_, err = g.InitEdge(n1, 10)
	assert.ErrorIs(t, err, algo.ErrNodeOutOfRange)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 3, g.EdgeCount())
	assert.True(t, g.HasEdge(n2, n1))
	assert.Equal(t, []int{n1, n3}, g.Neighbors(n2))

	// 计算最短路
	path, cost := g.ShortestPath(n1, n4, TestWeight1{})
	assert.Equal(t, []int{n1, n2, n3, n4}, path)
	assert.Equal(t, 3.0, cost)

	path, cost = g.ShortestPath(n3, n3, TestWeight1{})
	assert.Equal(t, []int{n3}, path)
	assert.Equal(t, 0.0, cost)

	// 加入不可达的点
	n5 := g.InitNode(5)
	path, cost = g.ShortestPath(n1, n5, TestWeight1{})
	assert.Nil(t, path)
	assert.Equal(t, mathutil.INF, cost)
	assert.False(t, algo.IsReachable(cost))
}

func TestSearchGraph2(t *testing.T) {
	g := algo.NewSearchGraph[int]()

	n1 := g.InitNode(1)
	n2 := g.InitNode(2)
	n3 := g.InitNode(3)

	g.InitEdge(n1, n2)
	g.InitEdge(n1, n3)
	g.InitEdge(n3, n2)

	weights := map[algo.Pair]float64{
		algo.NewPair(n1, n2): 10,
		algo.NewPair(n1, n3): 2,
		algo.NewPair(n3, n2): 1,
	}
	w := algo.EdgeWeightFunc[int](func(from, to int) float64 {
		return weights[algo.NewPair(from-1, to-1)]
	})

	path, cost := g.ShortestPath(n1, n2, w)
	assert.Equal(t, []int{n1, n3, n2}, path)
	assert.Equal(t, 3.0, cost)
}

func TestSearchGraphTieBreak(t *testing.T) {
	// 两条等价路径，先发现的邻居优先
	g := algo.NewSearchGraph[int]()
	s := g.InitNode(0)
	a := g.InitNode(1)
	b := g.InitNode(2)
	e := g.InitNode(3)
	g.InitEdge(s, a)
	g.InitEdge(s, b)
	g.InitEdge(a, e)
	g.InitEdge(b, e)
	unit := algo.EdgeWeightFunc[int](func(int, int) float64 { return 1 })
	for i := 0; i < 20; i++ {
		path, cost := g.ShortestPath(s, e, unit)
		assert.Equal(t, []int{s, a, e}, path)
		assert.Equal(t, 2.0, cost)
	}
}
