package calc

import "strings"

// Constants 步行、网约车、轨道交通的计算常量
type Constants struct {
	WalkingSpeedKmh float64 `yaml:"walking_speed_kmh" validate:"gt=0"`

	// 线路运行速度，未配置的线路使用默认值
	RouteSpeedKmh          map[string]float64 `yaml:"route_speed_kmh"`
	DefaultTransitSpeedKmh float64            `yaml:"default_transit_speed_kmh" validate:"gt=0"`
	DwellTimePerStopMin    float64            `yaml:"dwell_time_per_stop_min" validate:"gte=0"`

	TransitBaseFare float64 `yaml:"transit_base_fare" validate:"gte=0"`
	TransitPerKm    float64 `yaml:"transit_per_km" validate:"gte=0"`

	GrabBaseFare   float64 `yaml:"grab_base_fare" validate:"gte=0"`
	GrabPerKm      float64 `yaml:"grab_per_km" validate:"gte=0"`
	GrabPerMin     float64 `yaml:"grab_per_min" validate:"gte=0"`
	GrabBookingFee float64 `yaml:"grab_booking_fee" validate:"gte=0"`
	GrabSpeedKmh   float64 `yaml:"grab_speed_kmh" validate:"gt=0"`
}

func DefaultConstants() Constants {
	return Constants{
		WalkingSpeedKmh: 4.5,
		RouteSpeedKmh: map[string]float64{
			"KJ":  33,
			"SP":  28,
			"AG":  26,
			"MRT": 39,
			"PYL": 40,
			"MR":  19,
			"BRT": 28,
		},
		DefaultTransitSpeedKmh: 30,
		DwellTimePerStopMin:    0.33,
		TransitBaseFare:        0.8,
		TransitPerKm:           0.15,
		GrabBaseFare:           2.0,
		GrabPerKm:              0.65,
		GrabPerMin:             0.3,
		GrabBookingFee:         1.0,
		GrabSpeedKmh:           20,
	}
}

// RouteSpeed 线路运行速度/kmh
func (c Constants) RouteSpeed(line string) float64 {
	if v, ok := c.RouteSpeedKmh[strings.ToUpper(strings.TrimSpace(line))]; ok && v > 0 {
		return v
	}
	return c.DefaultTransitSpeedKmh
}
