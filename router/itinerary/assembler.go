package itinerary

import (
	"math"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"git.fiblab.net/sim/tripplanner/router/fare"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

const (
	// 步行/网约车切换的默认距离阈值/m
	DEFAULT_WALK_THRESHOLD = 300.0
	// 不超过该距离的接驳段不计入行程/m
	MIN_LEG_DISTANCE = 50.0
	// 舒适度上限
	MAX_COMFORT = 3.0
)

type Assembler struct {
	net    *network.Network
	consts calc.Constants
	fares  *fare.Resolver
	crowd  *crowd.Model
	hour   int
}

func NewAssembler(
	net *network.Network,
	consts calc.Constants,
	fares *fare.Resolver,
	crowdModel *crowd.Model,
	hour int,
) *Assembler {
	return &Assembler{net: net, consts: consts, fares: fares, crowd: crowdModel, hour: hour}
}

// Request 接驳距离/m、站点路径、离站距离/m、步行阈值/m
type Request struct {
	AccessM    float64
	Path       []*network.Station
	EgressM    float64
	ThresholdM float64
	// 接驳段最小计入距离/m，非正数使用默认值
	MinLegM float64
}

// Assemble 组装起点接驳、轨道、终点接驳三类分段并汇总
func (a *Assembler) Assemble(req Request) *Itinerary {
	threshold := req.ThresholdM
	if threshold <= 0 {
		threshold = DEFAULT_WALK_THRESHOLD
	}
	minLeg := req.MinLegM
	if minLeg <= 0 {
		minLeg = MIN_LEG_DISTANCE
	}
	it := &Itinerary{Segments: make([]*Segment, 0, 3)}
	if seg := a.legSegment(POSITION_START, req.AccessM, threshold, minLeg); seg != nil {
		it.Segments = append(it.Segments, seg)
	}
	if len(req.Path) >= 2 {
		it.Segments = append(it.Segments, a.transitSegment(req.Path))
	}
	if seg := a.legSegment(POSITION_END, req.EgressM, threshold, minLeg); seg != nil {
		it.Segments = append(it.Segments, seg)
	}

	// 汇总未舍入值，最后统一舍入
	it.Totals = Totals{
		DistanceKm: calc.Round2(lo.SumBy(it.Segments, func(s *Segment) float64 { return s.raw.km })),
		TimeMin:    math.Round(lo.SumBy(it.Segments, func(s *Segment) float64 { return s.raw.minutes })),
		Fare:       calc.Round2(lo.SumBy(it.Segments, func(s *Segment) float64 { return s.raw.fare })),
	}
	it.ComfortScore = lo.Clamp(BaselineTotal(it), 0, MAX_COMFORT)
	return it
}

func (a *Assembler) legSegment(pos Position, meters, threshold, minLeg float64) *Segment {
	if meters <= minLeg {
		return nil
	}
	km := meters / 1000
	seg := &Segment{Position: pos, DistanceKm: calc.Round2(km), StopCount: 1}
	if meters > threshold {
		seg.Mode = calc.MODE_GRAB
		seg.raw = rawValues{km: km, minutes: a.consts.GrabTimeMin(meters), fare: a.consts.GrabFareRaw(meters)}
	} else {
		seg.Mode = calc.MODE_WALK
		seg.raw = rawValues{km: km, minutes: a.consts.WalkingTimeMin(meters)}
	}
	seg.TimeMin = seg.raw.minutes
	seg.Fare = calc.Round2(seg.raw.fare)
	seg.Comfort = &Comfort{Baseline: a.crowd.ComfortScore(crowd.Segment{
		Mode:       seg.Mode,
		Stops:      1,
		DistanceKm: km,
	}, a.hour)}
	return seg
}

// 单条线路的累计量
type lineTotals struct {
	line    string
	km      float64
	running float64
	stops   int
	ledger  float64
	priced  bool
}

func (a *Assembler) lineOf(s *network.Station) string {
	return a.net.Aliases().Normalize(s.Line)
}

func (a *Assembler) transitSegment(path []*network.Station) *Segment {
	n := len(path)
	order := make([]string, 0)
	byLine := make(map[string]*lineTotals)
	get := func(line string) *lineTotals {
		lt, ok := byLine[line]
		if !ok {
			lt = &lineTotals{line: line}
			byLine[line] = lt
			order = append(order, line)
		}
		return lt
	}

	// 逐边距离与运行时间，计入出发站所在线路
	legKm := make([]float64, n-1)
	totalKm, totalRun := 0.0, 0.0
	for i := 0; i+1 < n; i++ {
		from, to := path[i], path[i+1]
		line := a.lineOf(from)
		if line == "" {
			line = a.lineOf(to)
		}
		km := a.net.LegKm(from, to)
		run := a.consts.RunningTimeMin(line, km)
		legKm[i] = km
		lt := get(line)
		lt.km += km
		lt.running += run
		totalKm += km
		totalRun += run
	}
	for _, s := range path {
		if lt, ok := byLine[a.lineOf(s)]; ok {
			lt.stops++
		}
	}

	// 同线路连续子段分别计价，换线处加换乘费
	transfers := 0
	fees := 0.0
	segStart := 0
	closeSub := func(end int) {
		if end <= segStart {
			return
		}
		line := a.lineOf(path[segStart])
		km := lo.Sum(legKm[segStart:end])
		f := a.fares.Fare(fare.Request{Line: line, DistanceKm: km, From: path[segStart].Name, To: path[end].Name})
		lt := get(line)
		lt.ledger += f
		lt.priced = true
	}
	for i := 1; i < n; i++ {
		prev, cur := a.lineOf(path[i-1]), a.lineOf(path[i])
		if prev == cur {
			continue
		}
		closeSub(i - 1)
		if prev != "" && cur != "" {
			transfers++
			fees += a.fares.TransferFee(prev, cur)
		}
		segStart = i
	}
	closeSub(n - 1)

	rawFare := fees
	for _, line := range order {
		rawFare += byLine[line].ledger
	}
	dwell := float64(max(n-2, 0)) * a.consts.DwellTimePerStopMin
	rawMinutes := totalRun + dwell

	seg := &Segment{
		Position:      POSITION_TRANSIT,
		Mode:          calc.MODE_TRANSIT,
		Line:          a.lineOf(path[0]),
		Stations:      lo.Map(path, func(s *network.Station, _ int) string { return s.ID }),
		DistanceKm:    calc.Round2(totalKm),
		TimeMin:       math.Round(rawMinutes),
		Fare:          calc.Round2(rawFare),
		StopCount:     n,
		TransferCount: transfers,
		IsTransfer:    transfers > 0,
		raw:           rawValues{km: totalKm, minutes: rawMinutes, fare: rawFare},
	}
	// 只统计有行驶距离的线路
	lines := lo.Filter(order, func(line string, _ int) bool { return byLine[line].km > 0 || byLine[line].running > 0 })
	if len(lines) == 0 {
		lines = order[:1]
	}
	seg.Lines = allocate(seg, lines, byLine)
	if seg.Line == "" {
		seg.Line = lines[0]
	}
	seg.Comfort = &Comfort{Baseline: a.crowd.ComfortScore(crowd.Segment{
		Mode:          calc.MODE_TRANSIT,
		Line:          seg.Line,
		Stops:         n,
		DistanceKm:    totalKm,
		Transfer:      transfers > 0,
		TransferCount: transfers,
		CrowdFrom:     path[0].Crowd,
		CrowdTo:       path[n-1].Crowd,
	}, a.hour)}
	return seg
}
