package itinerary

import (
	"math"

	"github.com/samber/lo"
)

// 累计比例取整分摊：第k项 = round(total*cum_k/sum) - round(total*cum_{k-1}/sum)，
// 末项吸收余数，保证各项之和等于total；sum为0时全部归末项
func cumulativeSplit(total int64, weights []float64) []int64 {
	out := make([]int64, len(weights))
	if len(weights) == 0 {
		return out
	}
	sum := lo.Sum(weights)
	if sum <= 0 {
		out[len(out)-1] = total
		return out
	}
	cum := 0.0
	var allocated int64
	for i := 0; i < len(weights)-1; i++ {
		cum += weights[i]
		next := int64(math.Round(float64(total) * cum / sum))
		if next < allocated {
			next = allocated
		}
		if next > total {
			next = total
		}
		out[i] = next - allocated
		allocated = next
	}
	out[len(out)-1] = total - allocated
	return out
}

// 时间按运行时间比例分摊（分钟），票价按账本或距离比例分摊（分）
func allocate(seg *Segment, lines []string, byLine map[string]*lineTotals) []LineShare {
	shares := make([]LineShare, len(lines))
	running := make([]float64, len(lines))
	km := make([]float64, len(lines))
	for i, line := range lines {
		lt := byLine[line]
		running[i] = lt.running
		km[i] = lt.km
		shares[i] = LineShare{
			Line:       line,
			DistanceKm: math.Round(lt.km*100) / 100,
			StopCount:  lt.stops,
		}
	}

	minutes := cumulativeSplit(int64(seg.TimeMin), running)
	for i := range shares {
		shares[i].TimeMin = float64(minutes[i])
	}

	fareCents := int64(math.Round(seg.Fare * 100))
	allPriced := lo.EveryBy(lines, func(line string) bool { return byLine[line].priced })
	var cents []int64
	if allPriced {
		// 账本精确票价，末项吸收换乘费与舍入余数
		cents = make([]int64, len(lines))
		var allocated int64
		for i := 0; i < len(lines)-1; i++ {
			cents[i] = min(int64(math.Round(byLine[lines[i]].ledger*100)), fareCents-allocated)
			allocated += cents[i]
		}
		cents[len(cents)-1] = fareCents - allocated
	} else {
		cents = cumulativeSplit(fareCents, km)
	}
	for i := range shares {
		shares[i].Fare = float64(cents[i]) / 100
	}
	return shares
}
