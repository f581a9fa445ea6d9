package algo

import (
	"container/heap"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
)

// 状态空间搜索中的一条出边
type StateEdge[S any] struct {
	To   S
	Cost float64
}

// IStateSpace 隐式状态图：状态键、终点判断、后继展开
type IStateSpace[K comparable, S any] interface {
	Key(S) K
	IsGoal(S) bool
	Expand(S) []StateEdge[S]
}

type stateItem[S any] struct {
	state    S
	priority float64
	seq      int
}

type stateQueue[S any] []stateItem[S]

func (q stateQueue[S]) Len() int { return len(q) }
func (q stateQueue[S]) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q stateQueue[S]) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *stateQueue[S]) Push(x any)   { *q = append(*q, x.(stateItem[S])) }
func (q *stateQueue[S]) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ShortestStatePath 在隐式状态图上做Dijkstra（懒删除），返回到达终点的最小代价状态序列
func ShortestStatePath[K comparable, S any](start S, space IStateSpace[K, S]) ([]S, float64, bool) {
	startKey := space.Key(start)
	best := map[K]float64{startKey: 0}
	states := map[K]S{startKey: start}
	cameFrom := make(map[K]K)
	settled := make(map[K]struct{})

	seq := 0
	openSet := stateQueue[S]{{state: start, priority: 0, seq: seq}}
	for openSet.Len() > 0 {
		item := heap.Pop(&openSet).(stateItem[S])
		key := space.Key(item.state)
		if _, ok := settled[key]; ok {
			continue
		}
		if item.priority > best[key] {
			continue
		}
		settled[key] = struct{}{}
		if space.IsGoal(item.state) {
			return reconstructStates(cameFrom, states, key), item.priority, true
		}
		for _, e := range space.Expand(item.state) {
			nextKey := space.Key(e.To)
			if _, ok := settled[nextKey]; ok {
				continue
			}
			tentative := item.priority + e.Cost
			old, ok := best[nextKey]
			if !ok {
				old = mathutil.INF
			}
			if tentative < old {
				best[nextKey] = tentative
				states[nextKey] = e.To
				cameFrom[nextKey] = key
				seq++
				heap.Push(&openSet, stateItem[S]{state: e.To, priority: tentative, seq: seq})
			}
		}
	}
	return nil, mathutil.INF, false
}

func reconstructStates[K comparable, S any](cameFrom map[K]K, states map[K]S, cur K) []S {
	pathBeforeReversed := []S{states[cur]}
	for {
		from, ok := cameFrom[cur]
		if !ok {
			break
		}
		cur = from
		pathBeforeReversed = append(pathBeforeReversed, states[cur])
	}
	return lo.Reverse(pathBeforeReversed)
}
