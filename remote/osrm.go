package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"git.fiblab.net/sim/tripplanner/router/geo"
	"github.com/patrickmn/go-cache"
)

var (
	ErrNoRoute    = errors.New("osrm found no route")
	ErrBadStatus  = errors.New("unexpected http status")
	ErrNotEnabled = errors.New("remote service not configured")
)

type Profile string

const (
	PROFILE_WALKING Profile = "walking"
	PROFILE_DRIVING Profile = "driving"
)

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// OSRM 路网距离查询，结果按起终点缓存
type OSRM struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

func NewOSRM(baseURL string, timeout, ttl time.Duration) *OSRM {
	return &OSRM{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New(ttl, 2*ttl),
	}
}

func cacheKey(profile Profile, from, to geo.LatLng) string {
	return fmt.Sprintf("%s:%.6f,%.6f;%.6f,%.6f", profile, from.Lng, from.Lat, to.Lng, to.Lat)
}

// Distance 路网距离/m
func (o *OSRM) Distance(ctx context.Context, profile Profile, from, to geo.LatLng) (float64, error) {
	if o == nil || o.baseURL == "" {
		return 0, ErrNotEnabled
	}
	key := cacheKey(profile, from, to)
	if v, ok := o.cache.Get(key); ok {
		return v.(float64), nil
	}
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		o.baseURL, profile, from.Lng, from.Lat, to.Lng, to.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: osrm %s", ErrBadStatus, resp.Status)
	}
	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode osrm response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return 0, fmt.Errorf("%w: code %s", ErrNoRoute, body.Code)
	}
	d := body.Routes[0].Distance
	o.cache.SetDefault(key, d)
	return d, nil
}

// LegDistance 接驳段有效距离/m：先取步行距离，超过阈值改取驾车距离，任何失败退回直线距离
func (o *OSRM) LegDistance(ctx context.Context, from, to geo.LatLng, thresholdM float64) float64 {
	straight := geo.Haversine(from, to)
	walk, err := o.Distance(ctx, PROFILE_WALKING, from, to)
	if err != nil {
		if !errors.Is(err, ErrNotEnabled) {
			log.Warnf("osrm walking distance failed, use straight line: %v", err)
		}
		return straight
	}
	if walk <= thresholdM {
		return walk
	}
	drive, err := o.Distance(ctx, PROFILE_DRIVING, from, to)
	if err != nil {
		log.Warnf("osrm driving distance failed, use straight line: %v", err)
		return straight
	}
	return drive
}
