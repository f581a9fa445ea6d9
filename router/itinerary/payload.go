package itinerary

import (
	"git.fiblab.net/sim/tripplanner/router/calc"
	"github.com/samber/lo"
)

// ComfortPayload 发送给舒适度估计服务的基线特征
type ComfortPayload struct {
	TransitTime  float64 `json:"transit_time"`
	TransitFare  float64 `json:"transit_fare"`
	GrabTime     float64 `json:"grab_time"`
	GrabFare     float64 `json:"grab_fare"`
	WalkTime     float64 `json:"walk_time"`
	ComfortScore float64 `json:"comfort_score"`
}

func sumOf(it *Itinerary, mode calc.Mode, f func(*Segment) float64) float64 {
	return calc.Round3(lo.SumBy(it.SegmentsOf(mode), f))
}

func Payload(it *Itinerary) ComfortPayload {
	timeOf := func(s *Segment) float64 { return s.TimeMin }
	fareOf := func(s *Segment) float64 { return s.Fare }
	return ComfortPayload{
		TransitTime:  sumOf(it, calc.MODE_TRANSIT, timeOf),
		TransitFare:  sumOf(it, calc.MODE_TRANSIT, fareOf),
		GrabTime:     sumOf(it, calc.MODE_GRAB, timeOf),
		GrabFare:     sumOf(it, calc.MODE_GRAB, fareOf),
		WalkTime:     sumOf(it, calc.MODE_WALK, timeOf),
		ComfortScore: BaselineTotal(it),
	}
}
