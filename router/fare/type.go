package fare

import (
	"regexp"
	"sort"
	"strings"

	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

// 票价来源
type Source int

const (
	SOURCE_NONE Source = iota
	SOURCE_STATION_TABLE
	SOURCE_CROSS_MODEL
	SOURCE_ZERO_DISTANCE
	SOURCE_LINE_MODEL
	SOURCE_FALLBACK
)

func (s Source) String() string {
	switch s {
	case SOURCE_STATION_TABLE:
		return "station_table"
	case SOURCE_CROSS_MODEL:
		return "cross_model"
	case SOURCE_ZERO_DISTANCE:
		return "zero_distance"
	case SOURCE_LINE_MODEL:
		return "line_model"
	case SOURCE_FALLBACK:
		return "fallback"
	default:
		return "none"
	}
}

// Table 站点对票价表，key为"FROM||TO"
type Table map[string]float64

// Tables 单线路与跨线路的站点对票价表
type Tables struct {
	Lines      map[string]Table `json:"lines" bson:"lines"`
	CrossLines map[string]Table `json:"cross_lines" bson:"cross_lines"`
}

// LineModel 线路参数化票价模型，缺省的base/per_km使用全局常量
type LineModel struct {
	Base  *float64 `json:"base,omitempty" bson:"base,omitempty"`
	PerKm *float64 `json:"per_km,omitempty" bson:"per_km,omitempty"`
	Min   *float64 `json:"min_fare,omitempty" bson:"min_fare,omitempty"`
	Max   *float64 `json:"max_fare,omitempty" bson:"max_fare,omitempty"`
}

// CrossLineModel 跨线路票价模型
type CrossLineModel struct {
	LineModel       `bson:",inline"`
	TransferPenalty *float64 `json:"transfer_penalty,omitempty" bson:"transfer_penalty,omitempty"`
}

type Model struct {
	Lines       map[string]LineModel      `json:"lines" bson:"lines"`
	CrossLines  map[string]CrossLineModel `json:"cross_lines" bson:"cross_lines"`
	TransferFee float64                   `json:"transfer_fee" bson:"transfer_fee"`
}

// Request 票价查询，Lines给出多线路行程经过的线路
type Request struct {
	Line       string
	Lines      []string
	DistanceKm float64
	From       string
	To         string
	Transfers  int
}

type Quote struct {
	Fare   float64
	Source Source
}

var spacesRegexp = regexp.MustCompile(`\s+`)

// NormalizeName 站名规范化：大写、去撇号、连字符转空格、合并空白
func NormalizeName(name string) string {
	s := strings.ToUpper(name)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", " ")
	s = spacesRegexp.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func TableKey(from, to string) string {
	return NormalizeName(from) + "||" + NormalizeName(to)
}

// PairKey 跨线路键：别名规范化、去重、排序、以"|"连接；不足两条线路时为空
func PairKey(lines []string, aliases network.Aliases) string {
	normalized := lo.Uniq(lo.FilterMap(lines, func(l string, _ int) (string, bool) {
		n := aliases.Normalize(l)
		return n, n != ""
	}))
	if len(normalized) < 2 {
		return ""
	}
	sort.Strings(normalized)
	return strings.Join(normalized, "|")
}
