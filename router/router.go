package router

import (
	"fmt"

	"git.fiblab.net/sim/tripplanner/router/algo"
	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"git.fiblab.net/sim/tripplanner/router/fare"
	"git.fiblab.net/sim/tripplanner/router/itinerary"
	"git.fiblab.net/sim/tripplanner/router/network"
)

// Router 只读快照上的路径搜索与行程计算
type Router struct {
	net    *network.Network
	consts calc.Constants
	fares  *fare.Resolver
	crowd  *crowd.Model
}

func New(
	net *network.Network,
	consts calc.Constants,
	fares *fare.Resolver,
	crowdModel *crowd.Model,
) *Router {
	return &Router{net: net, consts: consts, fares: fares, crowd: crowdModel}
}

// getter

func (r *Router) Network() *network.Network {
	return r.net
}

func (r *Router) Constants() calc.Constants {
	return r.consts
}

func (r *Router) Fares() *fare.Resolver {
	return r.fares
}

func (r *Router) Crowd() *crowd.Model {
	return r.crowd
}

// WithNetwork 同一套票价与拥挤度模型，替换站点图（用于拥挤度更新）
func (r *Router) WithNetwork(net *network.Network) *Router {
	return &Router{net: net, consts: r.consts, fares: r.fares, crowd: r.crowd}
}

// EdgeCost 单条边在指定目标下的代价
func (r *Router) EdgeCost(obj Objective, a, b *network.Station, hour int) (float64, error) {
	f, ok := costPolicies[obj]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownObjective, obj)
	}
	return f(r, a, b, hour), nil
}

// FindPath 按目标搜索站点路径，不可达时Found为false
func (r *Router) FindPath(q PathQuery) (*PathResult, error) {
	f, ok := costPolicies[q.Objective]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObjective, q.Objective)
	}
	start, ok := r.net.IndexOf(q.From)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, q.From)
	}
	end, ok := r.net.IndexOf(q.To)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, q.To)
	}

	var nodes []int
	var cost float64
	if q.Objective == CHEAPEST {
		nodes, cost, ok = r.cheapestPath(start, end)
	} else {
		w := algo.EdgeWeightFunc[*network.Station](func(a, b *network.Station) float64 {
			return f(r, a, b, q.Hour)
		})
		nodes, cost = r.net.Graph().ShortestPath(start, end, w)
		ok = nodes != nil
	}
	if !ok {
		log.Debugf("no %s path from %s to %s", q.Objective, q.From, q.To)
		return &PathResult{Found: false, Cost: cost}, nil
	}
	stations := make([]*network.Station, len(nodes))
	for i, n := range nodes {
		stations[i] = r.net.StationAt(n)
	}
	return &PathResult{Stations: stations, Cost: cost, Found: true}, nil
}

// ResolveFare 单独的票价解析
func (r *Router) ResolveFare(req fare.Request) fare.Quote {
	return r.fares.Resolve(req)
}

// StationCrowd 单独的站点拥挤度
func (r *Router) StationCrowd(id string, hour int) (float64, error) {
	s, ok := r.net.Station(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownStation, id)
	}
	return r.crowd.StationCrowd(r.net, s, hour), nil
}

// ComfortScore 单独的分段舒适度
func (r *Router) ComfortScore(seg crowd.Segment, hour int) float64 {
	return r.crowd.ComfortScore(seg, hour)
}

// Assembler 行程组装器
func (r *Router) Assembler(hour int) *itinerary.Assembler {
	return itinerary.NewAssembler(r.net, r.consts, r.fares, r.crowd, hour)
}
