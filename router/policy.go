package router

import (
	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"git.fiblab.net/sim/tripplanner/router/fare"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

// CostFunc 单条有向边A->B在给定目标下的代价，不修改任何共享状态
type CostFunc func(r *Router, a, b *network.Station, hour int) float64

var costPolicies = map[Objective]CostFunc{
	FASTEST:      fastestCost,
	SHORTEST:     shortestCost,
	CHEAPEST:     cheapestEdgeCost,
	COMFORT:      comfortCost,
	ECO_FRIENDLY: ecoCost,
}

func isTransfer(a, b *network.Station) bool {
	return a.Line != "" && b.Line != "" && a.Line != b.Line
}

func transferPenalty(a, b *network.Station) float64 {
	if isTransfer(a, b) {
		return TRANSFER_PENALTY
	}
	return 0
}

// 边所在线路：优先到达站
func edgeLine(a, b *network.Station) string {
	if b.Line != "" {
		return b.Line
	}
	return a.Line
}

func fastestCost(r *Router, a, b *network.Station, _ int) float64 {
	km := r.net.LegKm(a, b)
	return r.consts.TransitTimeFromDistance(edgeLine(a, b), km, EDGE_STOPS) + transferPenalty(a, b)
}

// 注意：距离(km)与换乘惩罚(min)单位不一致，保留原有数值行为
func shortestCost(r *Router, a, b *network.Station, _ int) float64 {
	return r.net.LegKm(a, b) + transferPenalty(a, b)
}

// 注意：舒适度与换乘惩罚(min)单位不一致，保留原有数值行为
func comfortCost(r *Router, a, b *network.Station, hour int) float64 {
	transfer := isTransfer(a, b)
	score := r.crowd.ComfortScore(crowd.Segment{
		Mode:          calc.MODE_TRANSIT,
		Line:          edgeLine(a, b),
		Stops:         EDGE_STOPS,
		DistanceKm:    r.net.LegKm(a, b),
		Transfer:      transfer,
		TransferCount: lo.Ternary(transfer, 1, 0),
		CrowdFrom:     a.Crowd,
		CrowdTo:       b.Crowd,
	}, hour)
	return score + transferPenalty(a, b)
}

func ecoCost(r *Router, a, b *network.Station, hour int) float64 {
	km := r.net.LegKm(a, b)
	if km <= ECO_WALKABLE_KM {
		return ECO_BASE_COST + km*ECO_PER_KM + transferPenalty(a, b)
	}
	return fastestCost(r, a, b, hour)
}

// 单边票价，仅用于单独评估一条边；cheapest路径搜索使用票价状态搜索
func cheapestEdgeCost(r *Router, a, b *network.Station, _ int) float64 {
	cost := r.fares.Fare(fare.Request{
		Line:       edgeLine(a, b),
		DistanceKm: r.net.LegKm(a, b),
		From:       a.Name,
		To:         b.Name,
	})
	if isTransfer(a, b) {
		cost += r.fares.TransferFee(a.Line, b.Line) + TRANSFER_PENALTY
	}
	return cost
}
