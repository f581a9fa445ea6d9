package network

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"git.fiblab.net/sim/tripplanner/router/algo"
	"git.fiblab.net/sim/tripplanner/router/geo"
)

const (
	// 换乘边的距离阈值/m
	TRANSFER_DISTANCE = 250.0
)

var idNumberRegexp = regexp.MustCompile(`\d+`)

// TrackDistancer 同线路站点间的轨道距离覆盖，单位km
type TrackDistancer interface {
	TrackKm(a, b *Station) (float64, bool)
}

// Network 站点图快照，构建后只读
type Network struct {
	graph      *algo.SearchGraph[*Station]
	index      map[string]int
	lineCounts map[string]int
	// 出现在多条线路上的站名
	multiLine map[string]struct{}
	aliases   Aliases
	track     TrackDistancer
}

type Option func(*Network)

func WithAliases(a Aliases) Option {
	return func(n *Network) { n.aliases = a }
}

func WithTrackDistance(t TrackDistancer) Option {
	return func(n *Network) { n.track = t }
}

// BuildGraph 构建站点无向图：同线路相邻站点连边，不同线路同名或距离<250m的站点连换乘边
func BuildGraph(stations []*Station, opts ...Option) *Network {
	n := &Network{
		graph:      algo.NewSearchGraph[*Station](),
		index:      make(map[string]int),
		lineCounts: make(map[string]int),
		multiLine:  make(map[string]struct{}),
		aliases:    DefaultAliases(),
	}
	for _, opt := range opts {
		opt(n)
	}

	// 线路分组，保持首次出现的顺序
	lineOrder := make([]string, 0)
	byLine := make(map[string][]int)
	for _, s := range stations {
		if s == nil || s.ID == "" || !s.Pos.Valid() {
			continue
		}
		if _, ok := n.index[s.ID]; ok {
			log.Debugf("duplicate station id %s ignored", s.ID)
			continue
		}
		i := n.graph.InitNode(s)
		n.index[s.ID] = i
		if s.Line == "" {
			continue
		}
		if _, ok := byLine[s.Line]; !ok {
			lineOrder = append(lineOrder, s.Line)
		}
		byLine[s.Line] = append(byLine[s.Line], i)
		n.lineCounts[s.Line]++
	}

	linesByName := make(map[string]map[string]struct{})
	for _, line := range lineOrder {
		for _, i := range byLine[line] {
			name := n.graph.Node(i).NormalizedName()
			if name == "" {
				continue
			}
			if linesByName[name] == nil {
				linesByName[name] = make(map[string]struct{})
			}
			linesByName[name][n.aliases.Normalize(line)] = struct{}{}
		}
	}
	for name, lines := range linesByName {
		if len(lines) > 1 {
			n.multiLine[name] = struct{}{}
		}
	}

	// 同线路相邻站点
	for _, line := range lineOrder {
		members := byLine[line]
		sort.SliceStable(members, func(i, j int) bool {
			return lessStationID(n.graph.Node(members[i]).ID, n.graph.Node(members[j]).ID)
		})
		for k := 0; k+1 < len(members); k++ {
			n.mustEdge(members[k], members[k+1])
		}
	}

	// 换乘边
	total := n.graph.Len()
	for i := 0; i < total; i++ {
		a := n.graph.Node(i)
		for j := i + 1; j < total; j++ {
			b := n.graph.Node(j)
			if a.Line == b.Line {
				continue
			}
			if isTransfer(a, b) {
				n.mustEdge(i, j)
			}
		}
	}
	log.Debugf("station graph built: %d stations, %d edges", total, n.graph.EdgeCount())
	return n
}

func isTransfer(a, b *Station) bool {
	if name := a.NormalizedName(); name != "" && name == b.NormalizedName() {
		return true
	}
	return geo.Haversine(a.Pos, b.Pos) < TRANSFER_DISTANCE
}

func (n *Network) mustEdge(u, v int) {
	if _, err := n.graph.InitEdge(u, v); err != nil {
		log.Panicf("failed to add edge %d-%d: %v", u, v, err)
	}
}

// 按编号中的首个数字排序，任一方无数字时按字典序
func lessStationID(a, b string) bool {
	na, okA := firstNumber(a)
	nb, okB := firstNumber(b)
	if okA && okB {
		return na < nb
	}
	return strings.Compare(a, b) < 0
}

func firstNumber(id string) (int, bool) {
	m := idNumberRegexp.FindString(id)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getter

func (n *Network) Len() int {
	return n.graph.Len()
}

func (n *Network) Graph() *algo.SearchGraph[*Station] {
	return n.graph
}

func (n *Network) Aliases() Aliases {
	return n.aliases
}

func (n *Network) IndexOf(id string) (int, bool) {
	i, ok := n.index[id]
	return i, ok
}

func (n *Network) Station(id string) (*Station, bool) {
	i, ok := n.index[id]
	if !ok {
		return nil, false
	}
	return n.graph.Node(i), true
}

func (n *Network) StationAt(i int) *Station {
	return n.graph.Node(i)
}

// Stations 图中全部站点，按加入顺序
func (n *Network) Stations() []*Station {
	out := make([]*Station, n.graph.Len())
	for i := range out {
		out[i] = n.graph.Node(i)
	}
	return out
}

// Neighbors 邻居站点编号
func (n *Network) Neighbors(id string) []string {
	i, ok := n.index[id]
	if !ok {
		return nil
	}
	nbs := n.graph.Neighbors(i)
	out := make([]string, len(nbs))
	for k, j := range nbs {
		out[k] = n.graph.Node(j).ID
	}
	return out
}

// LineStationCount 线路站点数，未知线路为0
func (n *Network) LineStationCount(line string) int {
	return n.lineCounts[line]
}

// IsInterchange 站名出现在多条线路上
func (n *Network) IsInterchange(s *Station) bool {
	_, ok := n.multiLine[s.NormalizedName()]
	return ok
}

// LegKm 相邻站点距离/km，同线路且有轨道距离时优先使用
func (n *Network) LegKm(a, b *Station) float64 {
	if n.track != nil && a.Line != "" && n.aliases.Normalize(a.Line) == n.aliases.Normalize(b.Line) {
		if km, ok := n.track.TrackKm(a, b); ok && km > 0 {
			return km
		}
	}
	return geo.HaversineKm(a.Pos, b.Pos)
}

// Nearest 距离给定点最近的站点与距离/m
func (n *Network) Nearest(p geo.LatLng) (*Station, float64) {
	var best *Station
	bestDist := 0.0
	for i := 0; i < n.graph.Len(); i++ {
		s := n.graph.Node(i)
		d := geo.Haversine(p, s.Pos)
		if best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, bestDist
}

// WithCrowd 发布带新拥挤度的快照，图结构共享
func (n *Network) WithCrowd(levels map[string]float64) *Network {
	return &Network{
		graph: n.graph.WithNodes(func(_ int, s *Station) *Station {
			if level, ok := levels[s.ID]; ok {
				return s.WithCrowd(level)
			}
			return s
		}),
		index:      n.index,
		lineCounts: n.lineCounts,
		multiLine:  n.multiLine,
		aliases:    n.aliases,
		track:      n.track,
	}
}
