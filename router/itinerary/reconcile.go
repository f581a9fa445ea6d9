package itinerary

import (
	"git.fiblab.net/sim/tripplanner/router/calc"
	"github.com/samber/lo"
)

// BaselineTotal 各分段基线舒适度之和，保留三位小数
func BaselineTotal(it *Itinerary) float64 {
	total := 0.0
	for _, s := range it.Segments {
		if s.Comfort != nil {
			total += s.Comfort.Baseline
		}
	}
	return calc.Round3(total)
}

// Reconcile 将外部修正后的总舒适度按基线权重分摊到各分段。
// adjusted为nil时以基线总值为准，距离、时间、票价不受影响
func Reconcile(it *Itinerary, adjusted *float64) float64 {
	baseline := BaselineTotal(it)
	final := lo.Clamp(lo.FromPtrOr(adjusted, baseline), 0, MAX_COMFORT)
	delta := final - baseline
	for _, s := range it.Segments {
		if s.Comfort == nil {
			continue
		}
		w := 0.0
		if baseline != 0 {
			w = s.Comfort.Baseline / baseline
		}
		v := lo.Clamp(calc.Round3(s.Comfort.Baseline+delta*w), 0, MAX_COMFORT)
		s.Comfort.AIAdjusted = &v
	}
	it.ComfortScore = final
	if adjusted == nil {
		log.Debugf("no comfort adjustment, keep baseline %.3f", baseline)
	}
	return final
}
