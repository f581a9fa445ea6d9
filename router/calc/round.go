package calc

import "math"

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// RoundFare 票价舍入：先到0.1，再到两位小数
func RoundFare(v float64) float64 {
	return Round2(math.Round(v*10) / 10)
}
