package fare

import (
	"math"
	"strings"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/samber/lo"
)

// 规范化后的查询
type query struct {
	line      string
	pairKey   string
	km        float64
	from      string
	to        string
	transfers int
}

// Strategy 票价解析策略，无结果时返回false
type Strategy func(r *Resolver, q query) (float64, Source, bool)

// Resolver 按策略链依次解析票价：站点对票价表、跨线路模型、零距离、线路模型、距离兜底
type Resolver struct {
	tables  Tables
	model   Model
	aliases network.Aliases

	baseFare float64
	perKm    float64

	chain []Strategy
}

func NewResolver(tables Tables, model Model, aliases network.Aliases, c calc.Constants) *Resolver {
	if aliases == nil {
		aliases = network.DefaultAliases()
	}
	r := &Resolver{
		aliases:  aliases,
		baseFare: c.TransitBaseFare,
		perKm:    c.TransitPerKm,
		chain: []Strategy{
			stationTableStrategy,
			crossModelStrategy,
			zeroDistanceStrategy,
			lineModelStrategy,
			fallbackStrategy,
		},
	}
	r.tables = r.normalizeTables(tables)
	r.model = r.normalizeModel(model)
	return r
}

func (r *Resolver) normalizeTables(in Tables) Tables {
	out := Tables{Lines: make(map[string]Table), CrossLines: make(map[string]Table)}
	normTable := func(t Table) Table {
		nt := make(Table, len(t))
		for k, v := range t {
			from, to, ok := strings.Cut(k, "||")
			if !ok {
				log.Debugf("fare table key %q ignored", k)
				continue
			}
			nt[TableKey(from, to)] = v
		}
		return nt
	}
	for line, t := range in.Lines {
		out.Lines[r.aliases.Normalize(line)] = normTable(t)
	}
	for key, t := range in.CrossLines {
		if pk := PairKey(strings.Split(key, "|"), r.aliases); pk != "" {
			out.CrossLines[pk] = normTable(t)
		}
	}
	return out
}

func (r *Resolver) normalizeModel(in Model) Model {
	out := Model{
		Lines:       make(map[string]LineModel),
		CrossLines:  make(map[string]CrossLineModel),
		TransferFee: in.TransferFee,
	}
	for line, m := range in.Lines {
		out.Lines[r.aliases.Normalize(line)] = m
	}
	for key, m := range in.CrossLines {
		if pk := PairKey(strings.Split(key, "|"), r.aliases); pk != "" {
			out.CrossLines[pk] = m
		}
	}
	return out
}

func (r *Resolver) Aliases() network.Aliases {
	return r.aliases
}

// Resolve 返回第一个有结果的策略给出的票价，保留两位小数
func (r *Resolver) Resolve(req Request) Quote {
	q := query{
		line:      r.aliases.Normalize(req.Line),
		pairKey:   PairKey(req.Lines, r.aliases),
		km:        req.DistanceKm,
		from:      NormalizeName(req.From),
		to:        NormalizeName(req.To),
		transfers: req.Transfers,
	}
	for _, s := range r.chain {
		if v, src, ok := s(r, q); ok {
			return Quote{Fare: calc.Round2(v), Source: src}
		}
	}
	return Quote{Source: SOURCE_NONE}
}

func (r *Resolver) Fare(req Request) float64 {
	return r.Resolve(req).Fare
}

// TransferFee 换乘费用，跨线路模型的transfer_penalty优先
func (r *Resolver) TransferFee(fromLine, toLine string) float64 {
	if pk := PairKey([]string{fromLine, toLine}, r.aliases); pk != "" {
		if m, ok := r.model.CrossLines[pk]; ok && m.TransferPenalty != nil {
			return *m.TransferPenalty
		}
	}
	return r.model.TransferFee
}

func (t Table) lookup(from, to string) (float64, bool) {
	if t == nil || from == "" || to == "" {
		return 0, false
	}
	if v, ok := t[from+"||"+to]; ok {
		return v, true
	}
	if v, ok := t[to+"||"+from]; ok {
		return v, true
	}
	return 0, false
}

// 多线路行程查跨线路表，否则查单线路表
func stationTableStrategy(r *Resolver, q query) (float64, Source, bool) {
	var t Table
	if q.pairKey != "" {
		t = r.tables.CrossLines[q.pairKey]
	} else {
		t = r.tables.Lines[q.line]
	}
	if v, ok := t.lookup(q.from, q.to); ok {
		return v, SOURCE_STATION_TABLE, true
	}
	return 0, SOURCE_NONE, false
}

func crossModelStrategy(r *Resolver, q query) (float64, Source, bool) {
	if q.pairKey == "" {
		return 0, SOURCE_NONE, false
	}
	m, ok := r.model.CrossLines[q.pairKey]
	if !ok {
		return 0, SOURCE_NONE, false
	}
	penalty := 0.0
	if m.TransferPenalty != nil {
		penalty = *m.TransferPenalty
	}
	raw := r.parametric(m.LineModel, q.km) + penalty*float64(max(q.transfers, 1))
	return calc.RoundFare(clampFare(raw, m.LineModel)), SOURCE_CROSS_MODEL, true
}

func zeroDistanceStrategy(r *Resolver, q query) (float64, Source, bool) {
	if q.km <= 0 {
		return 0, SOURCE_ZERO_DISTANCE, true
	}
	return 0, SOURCE_NONE, false
}

func lineModelStrategy(r *Resolver, q query) (float64, Source, bool) {
	m, ok := r.model.Lines[q.line]
	if !ok {
		return 0, SOURCE_NONE, false
	}
	return calc.RoundFare(clampFare(r.parametric(m, q.km), m)), SOURCE_LINE_MODEL, true
}

func fallbackStrategy(r *Resolver, q query) (float64, Source, bool) {
	log.Debugf("no fare model for line %q, using distance fallback", q.line)
	return calc.RoundFare(r.baseFare + r.perKm*q.km), SOURCE_FALLBACK, true
}

func (r *Resolver) parametric(m LineModel, km float64) float64 {
	base := lo.FromPtrOr(m.Base, r.baseFare)
	perKm := lo.FromPtrOr(m.PerKm, r.perKm)
	return base + perKm*math.Max(km, 0)
}

func clampFare(v float64, m LineModel) float64 {
	if m.Min != nil {
		v = math.Max(v, *m.Min)
	}
	if m.Max != nil {
		v = math.Min(v, *m.Max)
	}
	return v
}
