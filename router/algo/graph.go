package algo

import (
	"container/heap"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
)

// SearchGraph 无向图，节点按下标存储（arena + index），邻接表只保存下标
type SearchGraph[NT any] struct {
	// 点属性
	nodes []NT
	// 邻接表，按边插入顺序保存，保证遍历顺序确定
	edges [][]int
	// 去重用的边集合
	edgeSet map[Pair]struct{}

	// 构建完成后只读，建图时加写锁
	mu *xsync.RBMutex
}

func NewSearchGraph[NT any]() *SearchGraph[NT] {
	return &SearchGraph[NT]{
		nodes:   make([]NT, 0),
		edges:   make([][]int, 0),
		edgeSet: make(map[Pair]struct{}),
		mu:      xsync.NewRBMutex(),
	}
}

func (g *SearchGraph[NT]) InitNode(attr NT) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = append(g.nodes, attr)
	g.edges = append(g.edges, make([]int, 0))
	return len(g.nodes) - 1
}

// InitEdge 加入无向边u<->v，重复边忽略，返回是否新加入
func (g *SearchGraph[NT]) InitEdge(u, v int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u < 0 || v < 0 || u >= len(g.nodes) || v >= len(g.nodes) {
		return false, ErrNodeOutOfRange
	}
	if u == v {
		return false, ErrSelfEdge
	}
	key := NewPair(u, v)
	if _, ok := g.edgeSet[key]; ok {
		return false, nil
	}
	g.edgeSet[key] = struct{}{}
	g.edges[u] = append(g.edges[u], v)
	g.edges[v] = append(g.edges[v], u)
	return true, nil
}

func (g *SearchGraph[NT]) Len() int {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	return len(g.nodes)
}

func (g *SearchGraph[NT]) EdgeCount() int {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	return len(g.edgeSet)
}

func (g *SearchGraph[NT]) Node(i int) NT {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	return g.nodes[i]
}

// Neighbors 返回邻居下标（副本）
func (g *SearchGraph[NT]) Neighbors(i int) []int {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	out := make([]int, len(g.edges[i]))
	copy(out, g.edges[i])
	return out
}

func (g *SearchGraph[NT]) HasEdge(u, v int) bool {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	_, ok := g.edgeSet[NewPair(u, v)]
	return ok
}

func (g *SearchGraph[NT]) reconstructPath(cameFrom []int, cur int) []int {
	pathBeforeReversed := []int{cur}
	for cameFrom[cur] != NO_NODE {
		cur = cameFrom[cur]
		pathBeforeReversed = append(pathBeforeReversed, cur)
	}
	return lo.Reverse(pathBeforeReversed)
}

// ShortestPath Dijkstra最短路，返回节点下标序列与代价，不可达时返回nil与mathutil.INF
func (g *SearchGraph[NT]) ShortestPath(start, end int, w IEdgeWeight[NT]) ([]int, float64) {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	if start < 0 || end < 0 || start >= len(g.nodes) || end >= len(g.nodes) {
		return nil, mathutil.INF
	}
	if start == end {
		return []int{start}, 0
	}
	n := len(g.nodes)
	gScore := make([]float64, n)
	cameFrom := make([]int, n)
	closed := make([]bool, n)
	openSetMap := make(map[int]*Item)
	for i := range gScore {
		gScore[i] = mathutil.INF
		cameFrom[i] = NO_NODE
	}
	gScore[start] = 0
	seq := 0
	openSet := PriorityQueue{{Value: start, Priority: 0, Seq: seq}}
	openSetMap[start] = openSet[0]
	heap.Init(&openSet)
	for openSet.Len() > 0 {
		cur := heap.Pop(&openSet).(*Item).Value
		delete(openSetMap, cur)
		if cur == end {
			return g.reconstructPath(cameFrom, cur), gScore[cur]
		}
		closed[cur] = true
		for _, neighbor := range g.edges[cur] {
			if closed[neighbor] {
				continue
			}
			tentative := gScore[cur] + w.EdgeWeight(g.nodes[cur], g.nodes[neighbor])
			if tentative < gScore[neighbor] {
				cameFrom[neighbor] = cur
				gScore[neighbor] = tentative
				if item, ok := openSetMap[neighbor]; ok {
					// 已在堆中，修改优先级，保留首次发现的顺序
					item.Priority = tentative
					heap.Fix(&openSet, item.Index)
				} else {
					seq++
					item := &Item{Value: neighbor, Priority: tentative, Seq: seq}
					heap.Push(&openSet, item)
					openSetMap[neighbor] = item
				}
			}
		}
	}
	return nil, mathutil.INF
}

// WithNodes 复用邻接结构，替换全部节点属性，用于发布新版本快照
func (g *SearchGraph[NT]) WithNodes(f func(i int, attr NT) NT) *SearchGraph[NT] {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	nodes := make([]NT, len(g.nodes))
	for i, attr := range g.nodes {
		nodes[i] = f(i, attr)
	}
	return &SearchGraph[NT]{
		nodes:   nodes,
		edges:   g.edges,
		edgeSet: g.edgeSet,
		mu:      xsync.NewRBMutex(),
	}
}
