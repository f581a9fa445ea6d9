package main

import (
	"context"
	"time"
)

// CrowdUpdater 定时按当前小时重算全部站点拥挤度并发布新快照
type CrowdUpdater struct {
	store    *Store
	interval time.Duration
	now      func() time.Time
}

func NewCrowdUpdater(store *Store, interval time.Duration) *CrowdUpdater {
	return &CrowdUpdater{store: store, interval: interval, now: time.Now}
}

func (u *CrowdUpdater) RefreshOnce(hour int) *Snapshot {
	r := u.store.Load().Router
	levels := r.Crowd().Refresh(r.Network(), hour)
	snap := u.store.Publish(r.WithNetwork(r.Network().WithCrowd(levels)))
	log.Infof("crowd refreshed for hour %d: %d stations, version %d", hour, len(levels), snap.Version)
	return snap
}

// Run 立即刷新一次，之后按周期刷新直到ctx结束
func (u *CrowdUpdater) Run(ctx context.Context) {
	u.RefreshOnce(u.now().Hour())
	if u.interval <= 0 {
		return
	}
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.RefreshOnce(u.now().Hour())
		}
	}
}
