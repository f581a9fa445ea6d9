package router

import (
	"fmt"
	"strings"

	"git.fiblab.net/sim/tripplanner/router/network"
)

// Objective 路径优化目标
type Objective string

const (
	FASTEST      Objective = "fastest"
	SHORTEST     Objective = "shortest"
	CHEAPEST     Objective = "cheapest"
	COMFORT      Objective = "comfort"
	ECO_FRIENDLY Objective = "eco-friendly"
)

var Objectives = []Objective{FASTEST, SHORTEST, CHEAPEST, COMFORT, ECO_FRIENDLY}

func ParseObjective(s string) (Objective, error) {
	o := Objective(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := costPolicies[o]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownObjective, s)
	}
	return o, nil
}

// PathQuery 路径搜索请求
type PathQuery struct {
	Objective Objective
	From      string
	To        string
	// 查询时刻（小时），用于舒适度
	Hour int
}

// PathResult 站点序列，Found为false表示不可达
type PathResult struct {
	Stations []*network.Station
	Cost     float64
	Found    bool
}

func (p *PathResult) IDs() []string {
	out := make([]string, len(p.Stations))
	for i, s := range p.Stations {
		out[i] = s.ID
	}
	return out
}
