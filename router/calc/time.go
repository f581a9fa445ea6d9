package calc

import "math"

// WalkingTimeMin 步行时间/min，向上取整
func (c Constants) WalkingTimeMin(meters float64) float64 {
	if meters <= 0 {
		return 0
	}
	return math.Ceil(meters / 1000 / c.WalkingSpeedKmh * 60)
}

// GrabTimeMin 网约车时间/min，向上取整
func (c Constants) GrabTimeMin(meters float64) float64 {
	if meters <= 0 {
		return 0
	}
	return math.Ceil(meters / 1000 / c.GrabSpeedKmh * 60)
}

// GrabFareRaw 网约车费用（未舍入）
func (c Constants) GrabFareRaw(meters float64) float64 {
	km := math.Max(meters, 0) / 1000
	return c.GrabBaseFare + km*c.GrabPerKm + c.GrabTimeMin(meters)*c.GrabPerMin + c.GrabBookingFee
}

// GrabFare 网约车费用，保留两位小数
func (c Constants) GrabFare(meters float64) float64 {
	return Round2(c.GrabFareRaw(meters))
}

// RunningTimeMin 按线路速度计算的纯运行时间/min（未舍入）
func (c Constants) RunningTimeMin(line string, km float64) float64 {
	if km <= 0 {
		return 0
	}
	return km / c.RouteSpeed(line) * 60
}

// TransitTimeFromDistance 运行时间加上(stops-1)次停站时间，四舍五入到分钟
func (c Constants) TransitTimeFromDistance(line string, km float64, stops int) float64 {
	if km <= 0 {
		return 0
	}
	dwell := float64(max(stops-1, 0)) * c.DwellTimePerStopMin
	return math.Round(c.RunningTimeMin(line, km) + dwell)
}
