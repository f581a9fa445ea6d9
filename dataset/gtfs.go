package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"git.fiblab.net/sim/tripplanner/router/geo"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
)

var ErrMissingColumn = errors.New("gtfs file missing required column")

// 按表头读取csv，返回列名->下标与数据行
func readCSV(r io.Reader, required ...string) (map[string]int, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return header, records[1:], nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

type shapePoint struct {
	pos geo.LatLng
	seq int
}

// ParseShapes 解析shapes.txt，各形状的点按序号排序
func ParseShapes(r io.Reader) (map[string][]geo.LatLng, error) {
	h, rows, err := readCSV(r, "shape_id", "shape_pt_lat", "shape_pt_lon", "shape_pt_sequence")
	if err != nil {
		return nil, err
	}
	points := make(map[string][]shapePoint)
	for _, row := range rows {
		id := field(row, h["shape_id"])
		lat, errLat := strconv.ParseFloat(field(row, h["shape_pt_lat"]), 64)
		lng, errLng := strconv.ParseFloat(field(row, h["shape_pt_lon"]), 64)
		seq, errSeq := strconv.Atoi(field(row, h["shape_pt_sequence"]))
		if id == "" || errLat != nil || errLng != nil || errSeq != nil {
			continue
		}
		points[id] = append(points[id], shapePoint{pos: geo.LatLng{Lat: lat, Lng: lng}, seq: seq})
	}
	out := make(map[string][]geo.LatLng, len(points))
	for id, ps := range points {
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].seq < ps[j].seq })
		out[id] = lo.Map(ps, func(p shapePoint, _ int) geo.LatLng { return p.pos })
	}
	return out, nil
}

// ParseTripShapes 解析trips.txt，每条线路取首个出现的形状
func ParseTripShapes(r io.Reader) (map[string]string, error) {
	h, rows, err := readCSV(r, "route_id", "shape_id")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, row := range rows {
		route, shape := field(row, h["route_id"]), field(row, h["shape_id"])
		if route == "" || shape == "" {
			continue
		}
		if _, ok := out[route]; !ok {
			out[route] = shape
		}
	}
	return out, nil
}

// 由形状编号前缀推断线路
func routeOfShape(shapeID string) string {
	id := strings.ToUpper(shapeID)
	switch {
	case strings.HasPrefix(id, "SHP_PH_"):
		return "SP"
	case strings.HasPrefix(id, "SHP_MRT_"), strings.HasPrefix(id, "MRT"),
		strings.HasPrefix(id, "KGL"), strings.HasPrefix(id, "SBK"):
		return "MRT"
	}
	return ""
}

// Tracks 基于GTFS形状的同线路轨道距离
type Tracks struct {
	shapes      map[string][]geo.LatLng
	routeShapes map[string]string
	// 形状前缀推断出的线路 -> 形状编号
	prefixShapes map[string]string
	aliases      network.Aliases
	// (形状, 站点) -> 吸附点下标，首次使用时计算
	snaps *xsync.MapOf[snapKey, int]
}

type snapKey struct {
	shape   string
	station string
}

var _ network.TrackDistancer = (*Tracks)(nil)

func NewTracks(shapes map[string][]geo.LatLng, routeShapes map[string]string, aliases network.Aliases) *Tracks {
	t := &Tracks{
		shapes:       shapes,
		routeShapes:  make(map[string]string, len(routeShapes)),
		prefixShapes: make(map[string]string),
		aliases:      aliases,
		snaps:        xsync.NewMapOf[snapKey, int](),
	}
	for route, shape := range routeShapes {
		t.routeShapes[strings.ToUpper(strings.TrimSpace(route))] = shape
	}
	ids := lo.Keys(shapes)
	sort.Strings(ids)
	for _, id := range ids {
		if route := routeOfShape(id); route != "" {
			if _, ok := t.prefixShapes[route]; !ok {
				t.prefixShapes[route] = id
			}
		}
	}
	return t
}

func (t *Tracks) shapeOf(line string) (string, []geo.LatLng) {
	key := strings.ToUpper(strings.TrimSpace(line))
	if id, ok := t.routeShapes[key]; ok {
		return id, t.shapes[id]
	}
	if id, ok := t.prefixShapes[key]; ok {
		return id, t.shapes[id]
	}
	if id, ok := t.prefixShapes[t.aliases.Normalize(key)]; ok {
		return id, t.shapes[id]
	}
	return "", nil
}

func (t *Tracks) snapIndex(shape string, points []geo.LatLng, s *network.Station) int {
	if s.ID == "" {
		return nearestIndex(s.Pos, points)
	}
	i, _ := t.snaps.LoadOrCompute(snapKey{shape: shape, station: s.ID}, func() int {
		return nearestIndex(s.Pos, points)
	})
	return i
}

func nearestIndex(p geo.LatLng, points []geo.LatLng) int {
	best, bestDist := -1, 0.0
	for i, q := range points {
		if d := geo.Haversine(p, q); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// TrackKm 两站吸附到线路形状后沿形状的距离/km
func (t *Tracks) TrackKm(a, b *network.Station) (float64, bool) {
	if a.Line == "" || t.aliases.Normalize(a.Line) != t.aliases.Normalize(b.Line) {
		return 0, false
	}
	shape, points := t.shapeOf(a.Line)
	if len(points) < 2 {
		return 0, false
	}
	i, j := t.snapIndex(shape, points, a), t.snapIndex(shape, points, b)
	if i > j {
		i, j = j, i
	}
	km := 0.0
	for k := i; k < j; k++ {
		km += geo.HaversineKm(points[k], points[k+1])
	}
	return km, km > 0
}

// LoadTracks 读取shapes.txt与可选的trips.txt
func LoadTracks(shapesFile, tripsFile string, aliases network.Aliases) (*Tracks, error) {
	f, err := os.Open(shapesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	shapes, err := ParseShapes(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", shapesFile, err)
	}
	routeShapes := make(map[string]string)
	if tripsFile != "" {
		tf, err := os.Open(tripsFile)
		if err != nil {
			return nil, err
		}
		defer tf.Close()
		if routeShapes, err = ParseTripShapes(tf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", tripsFile, err)
		}
	}
	log.Infof("loaded %d shapes, %d route shapes", len(shapes), len(routeShapes))
	return NewTracks(shapes, routeShapes, aliases), nil
}
