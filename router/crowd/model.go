package crowd

import (
	"math"
	"regexp"
	"strings"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

var (
	crowdPunctRegexp  = regexp.MustCompile(`[()!-]`)
	crowdSpacesRegexp = regexp.MustCompile(`\s+`)
)

// Model 站点拥挤度与分段舒适度模型，只读
type Model struct {
	params       Params
	ridership    Ridership
	aliases      network.Aliases
	interchanges map[string]struct{}
}

func NewModel(p Params, ridership Ridership, aliases network.Aliases) *Model {
	if aliases == nil {
		aliases = network.DefaultAliases()
	}
	m := &Model{
		params:       p,
		ridership:    ridership,
		aliases:      aliases,
		interchanges: make(map[string]struct{}, len(p.Interchanges)),
	}
	for _, name := range p.Interchanges {
		m.interchanges[normalizeStationName(name)] = struct{}{}
	}
	return m
}

func (m *Model) Params() Params {
	return m.params
}

func normalizeStationName(name string) string {
	s := strings.ToUpper(name)
	s = strings.ReplaceAll(s, "'", "")
	s = crowdPunctRegexp.ReplaceAllString(s, " ")
	s = crowdSpacesRegexp.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Column 线路对应的客流列，先查原始编号再查规范化编号
func (m *Model) Column(line string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(line))
	if col, ok := m.params.RouteToColumn[key]; ok {
		return col, col != ""
	}
	if col, ok := m.params.RouteToColumn[m.aliases.Normalize(key)]; ok {
		return col, col != ""
	}
	return "", false
}

// CrowdInput 拥挤度计算的全部输入
type CrowdInput struct {
	Daily        float64
	LineStations int
	Hour         int
	Capacity     float64
	Busy         float64
	Interchange  bool
}

// CrowdLevel 日客流/运营小时/线路站数，高峰乘系数，乘繁忙与换乘系数，除以(容量*可视系数)，截断到[0,1]保留3位
func (m *Model) CrowdLevel(in CrowdInput) float64 {
	if in.Daily <= 0 {
		return 0
	}
	hourly := in.Daily / m.params.ActiveHours / float64(max(in.LineStations, 1))
	for _, b := range m.params.PeakBands {
		if b.Contains(in.Hour) {
			hourly *= m.params.PeakMultiplier
			break
		}
	}
	multiplier := 1.0
	if in.Busy > 0 {
		multiplier *= in.Busy
	}
	if in.Interchange {
		multiplier *= m.params.InterchangeModifier
	}
	capacity := in.Capacity
	if capacity <= 0 {
		capacity = m.params.DefaultCapacity
	}
	crowd := hourly * multiplier / (capacity * m.params.VisualCapacityFactor)
	return calc.Round3(lo.Clamp(crowd, 0, 1))
}

// StationCrowd 站点拥挤度，线路无客流数据时返回缓存值或0
func (m *Model) StationCrowd(n *network.Network, s *network.Station, hour int) float64 {
	column, ok := m.Column(s.Line)
	if !ok {
		return s.CrowdLevel()
	}
	daily, ok := m.ridership.Latest(column)
	if !ok {
		log.Debugf("no ridership for column %s, station %s", column, s.ID)
		return s.CrowdLevel()
	}
	capacity, ok := m.params.LineCapacity[column]
	if !ok {
		capacity = m.params.DefaultCapacity
	}
	name := normalizeStationName(lo.Ternary(s.Name != "", s.Name, s.ID))
	alias, hasAlias := m.params.BusyAliases[name]
	if hasAlias {
		name = alias
	}
	_, flagged := m.interchanges[name]
	return m.CrowdLevel(CrowdInput{
		Daily:        daily,
		LineStations: n.LineStationCount(s.Line),
		Hour:         hour,
		Capacity:     capacity,
		Busy:         m.params.BusyStations[name],
		Interchange:  flagged || n.IsInterchange(s),
	})
}

// Refresh 计算全部站点拥挤度，用于发布新快照
func (m *Model) Refresh(n *network.Network, hour int) map[string]float64 {
	levels := make(map[string]float64, n.Len())
	for _, s := range n.Stations() {
		levels[s.ID] = m.StationCrowd(n, s, hour)
	}
	return levels
}

// Segment 舒适度计算的分段输入
type Segment struct {
	Mode          calc.Mode
	Line          string
	Stops         int
	DistanceKm    float64
	Transfer      bool
	TransferCount int
	CrowdFrom     *float64
	CrowdTo       *float64
}

// DailyRidership 线路日客流，缺失时使用默认值
func (m *Model) DailyRidership(line string) float64 {
	if column, ok := m.Column(line); ok {
		if v, ok := m.ridership.Latest(column); ok && v > 0 {
			return v
		}
	}
	return m.params.DefaultDailyRidership
}

func (m *Model) comfortPeakFactor(hour int) float64 {
	factor := 1.0
	for _, b := range m.params.ComfortPeakBands {
		if b.Contains(hour) {
			factor = b.Factor
		}
	}
	return factor
}

// ComfortScore 分段舒适度，取值[0,3]
func (m *Model) ComfortScore(seg Segment, hour int) float64 {
	score := 0.0
	switch seg.Mode {
	case calc.MODE_TRANSIT:
		baseline := m.DailyRidership(seg.Line) / m.params.ComfortDailyDivisor
		stops := seg.Stops
		if stops <= 0 {
			stops = m.params.DefaultComfortStops
		}
		live := (lo.FromPtr(seg.CrowdFrom) + lo.FromPtr(seg.CrowdTo)) / 2
		score = (baseline/float64(stops) + live) / 2 * m.comfortPeakFactor(hour)
	case calc.MODE_WALK:
		score = math.Max(seg.DistanceKm, 0) * m.params.WalkComfortPerKm
	}
	if seg.Transfer {
		score += m.params.TransferComfortPenalty * float64(max(seg.TransferCount, 1))
	}
	return lo.Clamp(score, 0, m.params.MaxComfort)
}
