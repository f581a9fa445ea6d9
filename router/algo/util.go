package algo

import "git.fiblab.net/general/common/v2/mathutil"

// 代价是否可达
func IsReachable(cost float64) bool {
	return cost < mathutil.INF
}
