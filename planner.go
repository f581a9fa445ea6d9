package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.fiblab.net/sim/tripplanner/config"
	"git.fiblab.net/sim/tripplanner/remote"
	"git.fiblab.net/sim/tripplanner/router"
	"git.fiblab.net/sim/tripplanner/router/geo"
	"git.fiblab.net/sim/tripplanner/router/itinerary"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoPath       = errors.New("no path between stations")
	ErrEmptyNetwork = errors.New("station network is empty")
	ErrInvalidPoint = errors.New("invalid coordinate")
	ErrInvalidHour  = errors.New("hour must be within [0,23]")
)

type PlanRequest struct {
	From      geo.LatLng `json:"from"`
	To        geo.LatLng `json:"to"`
	Objective string     `json:"objective"`
	// 缺省为当前小时
	Hour           *int    `json:"hour"`
	WalkThresholdM float64 `json:"walk_threshold_m"`
}

type StationView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Line  string     `json:"line"`
	Pos   geo.LatLng `json:"pos"`
	Crowd *float64   `json:"crowd,omitempty"`
}

func newStationView(s *network.Station) StationView {
	return StationView{ID: s.ID, Name: s.Name, Line: s.Line, Pos: s.Pos, Crowd: s.Crowd}
}

type Plan struct {
	RequestID   string               `json:"request_id"`
	Version     uint64               `json:"version"`
	Objective   router.Objective     `json:"objective"`
	Hour        int                  `json:"hour"`
	FromStation StationView          `json:"from_station"`
	ToStation   StationView          `json:"to_station"`
	Path        []string             `json:"path"`
	Itinerary   *itinerary.Itinerary `json:"itinerary"`
}

// Planner 起终点坐标到完整行程的编排
type Planner struct {
	store     *Store
	osrm      *remote.OSRM
	estimator *remote.Estimator
	routing   config.Routing
	now       func() time.Time
}

// osrm与estimator可为nil，此时使用直线距离与基线舒适度
func NewPlanner(store *Store, osrm *remote.OSRM, estimator *remote.Estimator, routing config.Routing) *Planner {
	return &Planner{store: store, osrm: osrm, estimator: estimator, routing: routing, now: time.Now}
}

type candidate struct {
	objective router.Objective
	path      *router.PathResult
	itinerary *itinerary.Itinerary
}

// cheapest目标同时比较cheapest、fastest、shortest的结果，取总票价最低者
func candidatesOf(obj router.Objective) []router.Objective {
	if obj == router.CHEAPEST {
		return []router.Objective{router.CHEAPEST, router.FASTEST, router.SHORTEST}
	}
	return []router.Objective{obj}
}

func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	obj := router.FASTEST
	if req.Objective != "" {
		var err error
		if obj, err = router.ParseObjective(req.Objective); err != nil {
			return nil, err
		}
	}
	hour := p.now().Hour()
	if req.Hour != nil {
		hour = *req.Hour
	}
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	if !req.From.Valid() || !req.To.Valid() {
		return nil, fmt.Errorf("%w: from %v to %v", ErrInvalidPoint, req.From, req.To)
	}
	threshold := req.WalkThresholdM
	if threshold <= 0 {
		threshold = p.routing.WalkThresholdM
	}

	snap := p.store.Load()
	r := snap.Router
	net := r.Network()
	if net.Len() == 0 {
		return nil, ErrEmptyNetwork
	}
	start, _ := net.Nearest(req.From)
	end, _ := net.Nearest(req.To)

	// 接驳距离
	var accessM, egressM float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accessM = p.osrm.LegDistance(gctx, req.From, start.Pos, threshold)
		return nil
	})
	g.Go(func() error {
		egressM = p.osrm.LegDistance(gctx, end.Pos, req.To, threshold)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 候选路径
	objs := candidatesOf(obj)
	cands := make([]*candidate, len(objs))
	asm := r.Assembler(hour)
	g = new(errgroup.Group)
	for i, o := range objs {
		i, o := i, o
		g.Go(func() error {
			res, err := r.FindPath(router.PathQuery{Objective: o, From: start.ID, To: end.ID, Hour: hour})
			if err != nil {
				return err
			}
			if !res.Found {
				return nil
			}
			cands[i] = &candidate{
				objective: o,
				path:      res,
				itinerary: asm.Assemble(itinerary.Request{
					AccessM:    accessM,
					Path:       res.Stations,
					EgressM:    egressM,
					ThresholdM: threshold,
					MinLegM:    p.routing.MinLegM,
				}),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var best *candidate
	for _, c := range cands {
		if c != nil && (best == nil || c.itinerary.Totals.Fare < best.itinerary.Totals.Fare) {
			best = c
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, start.ID, end.ID)
	}
	if best.objective != obj {
		log.Debugf("%s candidate from %s search is cheaper", obj, best.objective)
	}

	it := best.itinerary
	itinerary.Reconcile(it, p.adjustComfort(ctx, it))

	return &Plan{
		RequestID:   uuid.NewString(),
		Version:     snap.Version,
		Objective:   obj,
		Hour:        hour,
		FromStation: newStationView(start),
		ToStation:   newStationView(end),
		Path:        best.path.IDs(),
		Itinerary:   it,
	}, nil
}

// 舒适度修正服务不可用时返回nil，保持基线
func (p *Planner) adjustComfort(ctx context.Context, it *itinerary.Itinerary) *float64 {
	v, err := p.estimator.Adjust(ctx, itinerary.Payload(it))
	if err != nil {
		if !errors.Is(err, remote.ErrNotEnabled) {
			log.Warnf("comfort estimator failed, keep baseline: %v", err)
		}
		return nil
	}
	return &v
}
