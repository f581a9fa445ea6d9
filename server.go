package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"git.fiblab.net/sim/tripplanner/router"
	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"git.fiblab.net/sim/tripplanner/router/fare"
	"git.fiblab.net/sim/tripplanner/router/itinerary"
	"git.fiblab.net/sim/tripplanner/router/network"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// TripServer 行程规划HTTP接口
type TripServer struct {
	store   *Store
	planner *Planner
}

func NewTripServer(store *Store, planner *Planner) *TripServer {
	return &TripServer{store: store, planner: planner}
}

func (s *TripServer) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), cors.Default())
	engine.POST("/route", s.route)
	engine.GET("/fare", s.fare)
	engine.GET("/crowd", s.crowd)
	engine.POST("/comfort", s.comfort)
	engine.POST("/comfort/reconcile", s.reconcile)
	engine.GET("/stations", s.stations)
	engine.GET("/healthz", s.healthz)
	return engine
}

// 错误到HTTP状态码
func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, router.ErrUnknownObjective),
		errors.Is(err, ErrInvalidPoint),
		errors.Is(err, ErrInvalidHour):
		status = http.StatusBadRequest
	case errors.Is(err, router.ErrUnknownStation),
		errors.Is(err, ErrNoPath):
		status = http.StatusNotFound
	case errors.Is(err, ErrEmptyNetwork):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// 查询参数中的小时，缺省为当前小时
func (s *TripServer) hourOf(c *gin.Context) (int, error) {
	v := c.Query("hour")
	if v == "" {
		return s.planner.now().Hour(), nil
	}
	h, err := strconv.Atoi(v)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidHour
	}
	return h, nil
}

func (s *TripServer) route(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := s.planner.Plan(c.Request.Context(), req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *TripServer) fare(c *gin.Context) {
	km, err := strconv.ParseFloat(c.DefaultQuery("km", "0"), 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	req := fare.Request{
		Line:       c.Query("line"),
		DistanceKm: km,
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
	if lines := c.Query("lines"); lines != "" {
		req.Lines = lo.Compact(lo.Map(strings.Split(lines, ","), func(l string, _ int) string {
			return strings.TrimSpace(l)
		}))
	}
	q := s.store.Load().Router.ResolveFare(req)
	c.JSON(http.StatusOK, gin.H{"fare": q.Fare, "source": q.Source.String()})
}

func (s *TripServer) crowd(c *gin.Context) {
	hour, err := s.hourOf(c)
	if err != nil {
		abort(c, err)
		return
	}
	id := c.Query("station")
	level, err := s.store.Load().Router.StationCrowd(id, hour)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": id, "hour": hour, "crowd": level})
}

type comfortRequest struct {
	Mode          calc.Mode `json:"type" binding:"required,oneof=walk grab transit"`
	Line          string    `json:"line"`
	Stops         int       `json:"stops"`
	DistanceKm    float64   `json:"distance_km"`
	Transfer      bool      `json:"transfer"`
	TransferCount int       `json:"transfer_count"`
	CrowdFrom     *float64  `json:"crowd_from"`
	CrowdTo       *float64  `json:"crowd_to"`
	Hour          *int      `json:"hour"`
}

func (s *TripServer) comfort(c *gin.Context) {
	var req comfortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	hour := lo.FromPtrOr(req.Hour, s.planner.now().Hour())
	score := s.store.Load().Router.ComfortScore(crowd.Segment{
		Mode:          req.Mode,
		Line:          req.Line,
		Stops:         req.Stops,
		DistanceKm:    req.DistanceKm,
		Transfer:      req.Transfer,
		TransferCount: req.TransferCount,
		CrowdFrom:     req.CrowdFrom,
		CrowdTo:       req.CrowdTo,
	}, hour)
	c.JSON(http.StatusOK, gin.H{"comfort_score": score})
}

type reconcileRequest struct {
	Itinerary     *itinerary.Itinerary `json:"itinerary" binding:"required"`
	AdjustedTotal *float64             `json:"adjusted_total"`
}

func (s *TripServer) reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	itinerary.Reconcile(req.Itinerary, req.AdjustedTotal)
	c.JSON(http.StatusOK, req.Itinerary)
}

func (s *TripServer) stations(c *gin.Context) {
	net := s.store.Load().Router.Network()
	c.JSON(http.StatusOK, lo.Map(net.Stations(), func(st *network.Station, _ int) StationView {
		return newStationView(st)
	}))
}

func (s *TripServer) healthz(c *gin.Context) {
	snap := s.store.Load()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  snap.Version,
		"stations": snap.Router.Network().Len(),
		"updated":  snap.UpdatedAt,
	})
}
