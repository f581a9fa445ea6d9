package algo

// 无向边的规范化表示，U < V
type Pair struct {
	U int
	V int
}

func NewPair(u, v int) Pair {
	if u > v {
		u, v = v, u
	}
	return Pair{U: u, V: v}
}

// 边权提取接口，输入两个端点的节点属性
type IEdgeWeight[NT any] interface {
	EdgeWeight(from, to NT) float64
}

// 函数形式的边权
type EdgeWeightFunc[NT any] func(from, to NT) float64

func (f EdgeWeightFunc[NT]) EdgeWeight(from, to NT) float64 {
	return f(from, to)
}
