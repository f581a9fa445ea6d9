package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"git.fiblab.net/sim/tripplanner/router/itinerary"
	"github.com/samber/lo"
)

var ErrNoCorrection = errors.New("estimator returned no correction")

type estimateResponse struct {
	OK         bool `json:"ok"`
	Correction *struct {
		ComfortAdjust *float64 `json:"comfort_adjust"`
	} `json:"correction"`
}

// Estimator 舒适度修正服务客户端
type Estimator struct {
	baseURL string
	client  *http.Client
}

func NewEstimator(baseURL string, timeout time.Duration) *Estimator {
	return &Estimator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Adjust 返回修正后的总舒适度 comfort_score + comfort_adjust
func (e *Estimator) Adjust(ctx context.Context, payload itinerary.ComfortPayload) (float64, error) {
	if e == nil || e.baseURL == "" {
		return 0, ErrNotEnabled
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ai/estimate", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: estimator %s", ErrBadStatus, resp.Status)
	}
	var out estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode estimator response: %w", err)
	}
	if !out.OK || out.Correction == nil {
		return 0, ErrNoCorrection
	}
	return payload.ComfortScore + lo.FromPtr(out.Correction.ComfortAdjust), nil
}
