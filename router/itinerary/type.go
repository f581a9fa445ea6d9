package itinerary

import "git.fiblab.net/sim/tripplanner/router/calc"

// 分段在行程中的位置
type Position string

const (
	POSITION_START   Position = "start"
	POSITION_TRANSIT Position = "transit"
	POSITION_END     Position = "end"
)

type Comfort struct {
	Baseline   float64  `json:"baseline"`
	AIAdjusted *float64 `json:"ai_adjusted,omitempty"`
}

// LineShare 多线路轨道分段中单条线路的分摊
type LineShare struct {
	Line       string  `json:"line"`
	DistanceKm float64 `json:"distance_km"`
	TimeMin    float64 `json:"time_min"`
	Fare       float64 `json:"fare"`
	StopCount  int     `json:"stop_count"`
}

// 未舍入的分段数值，仅用于汇总
type rawValues struct {
	km      float64
	minutes float64
	fare    float64
}

type Segment struct {
	Position      Position    `json:"position"`
	Mode          calc.Mode   `json:"type"`
	Line          string      `json:"line,omitempty"`
	Stations      []string    `json:"stations,omitempty"`
	DistanceKm    float64     `json:"distance_km"`
	TimeMin       float64     `json:"time_min"`
	Fare          float64     `json:"fare"`
	StopCount     int         `json:"stop_count"`
	TransferCount int         `json:"transfer_count"`
	IsTransfer    bool        `json:"is_transfer"`
	Lines         []LineShare `json:"lines,omitempty"`
	Comfort       *Comfort    `json:"comfort,omitempty"`

	raw rawValues
}

type Totals struct {
	DistanceKm float64 `json:"distance_km"`
	TimeMin    float64 `json:"time_min"`
	Fare       float64 `json:"fare"`
}

type Itinerary struct {
	Segments     []*Segment `json:"segments"`
	Totals       Totals     `json:"totals"`
	ComfortScore float64    `json:"comfort_score"`
}

// 按出行方式取分段
func (it *Itinerary) SegmentsOf(mode calc.Mode) []*Segment {
	out := make([]*Segment, 0)
	for _, s := range it.Segments {
		if s.Mode == mode {
			out = append(out, s)
		}
	}
	return out
}
