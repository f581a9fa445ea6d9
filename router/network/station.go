package network

import (
	"strings"

	"git.fiblab.net/sim/tripplanner/router/geo"
)

type Station struct {
	ID   string
	Name string
	Pos  geo.LatLng
	// 线路，非轨道站点为空
	Line string
	// 实时拥挤度[0,1]，仅由拥挤度更新器写入新版本快照
	Crowd *float64
}

// 换乘判断用的站名：去首尾空白并大写
func (s *Station) NormalizedName() string {
	return strings.ToUpper(strings.TrimSpace(s.Name))
}

func (s *Station) CrowdLevel() float64 {
	if s.Crowd == nil {
		return 0
	}
	return *s.Crowd
}

// 复制站点并设置拥挤度
func (s *Station) WithCrowd(level float64) *Station {
	cp := *s
	cp.Crowd = &level
	return &cp
}
