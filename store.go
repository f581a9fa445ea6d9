package main

import (
	"time"

	"git.fiblab.net/sim/tripplanner/router"
	"github.com/puzpuzpuz/xsync/v3"
)

// Snapshot 一个已发布版本的路由器，发布后只读
type Snapshot struct {
	Version   uint64
	Router    *router.Router
	UpdatedAt time.Time
}

// Store 快照存储：读多写少，更新时整体替换
type Store struct {
	mu  *xsync.RBMutex
	cur *Snapshot
}

func NewStore(r *router.Router) *Store {
	return &Store{
		mu:  xsync.NewRBMutex(),
		cur: &Snapshot{Version: 1, Router: r, UpdatedAt: time.Now()},
	}
}

func (s *Store) Load() *Snapshot {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	return s.cur
}

// Publish 发布新版本
func (s *Store) Publish(r *router.Router) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = &Snapshot{Version: s.cur.Version + 1, Router: r, UpdatedAt: time.Now()}
	return s.cur
}
