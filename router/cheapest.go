package router

import (
	"math"

	"git.fiblab.net/sim/tripplanner/router/algo"
	"git.fiblab.net/sim/tripplanner/router/fare"
)

// 票价状态：当前站、当前线路、当前同线路段累计距离、段起点站名
type fareState struct {
	node     int
	line     string
	segKm    float64
	segStart string
}

type fareKey struct {
	node     int
	line     string
	segStart string
}

// 票价感知的状态空间：同线路延伸只计边际票价，换线按跨线路票价重新起段
type fareSpace struct {
	r    *Router
	dest int
}

func (s fareSpace) Key(st fareState) fareKey {
	return fareKey{node: st.node, line: st.line, segStart: st.segStart}
}

func (s fareSpace) IsGoal(st fareState) bool {
	return st.node == s.dest
}

func (s fareSpace) segmentFare(line, prevLine string, km float64, from, to string) float64 {
	req := fare.Request{Line: line, DistanceKm: km, From: from, To: to}
	if prevLine != "" && prevLine != line {
		req.Lines = []string{prevLine, line}
	}
	return s.r.fares.Fare(req)
}

func (s fareSpace) Expand(st fareState) []algo.StateEdge[fareState] {
	g := s.r.net.Graph()
	aliases := s.r.net.Aliases()
	cur := g.Node(st.node)
	out := make([]algo.StateEdge[fareState], 0)
	for _, j := range g.Neighbors(st.node) {
		next := g.Node(j)
		km := s.r.net.LegKm(cur, next)
		line := aliases.Normalize(edgeLine(cur, next))
		if st.line == "" || st.line == line {
			newKm := st.segKm + km
			oldFare := s.segmentFare(line, "", st.segKm, st.segStart, cur.Name)
			newFare := s.segmentFare(line, "", newKm, st.segStart, next.Name)
			out = append(out, algo.StateEdge[fareState]{
				To:   fareState{node: j, line: line, segKm: newKm, segStart: st.segStart},
				Cost: math.Max(newFare-oldFare, 0),
			})
		} else {
			out = append(out, algo.StateEdge[fareState]{
				To:   fareState{node: j, line: line, segKm: km, segStart: cur.Name},
				Cost: s.segmentFare(line, st.line, km, cur.Name, next.Name),
			})
		}
	}
	return out
}

func (r *Router) cheapestPath(start, dest int) ([]int, float64, bool) {
	startState := fareState{node: start, segStart: r.net.StationAt(start).Name}
	states, cost, ok := algo.ShortestStatePath[fareKey, fareState](startState, fareSpace{r: r, dest: dest})
	if !ok {
		return nil, cost, false
	}
	nodes := make([]int, len(states))
	for i, st := range states {
		nodes[i] = st.node
	}
	return nodes, cost, true
}
