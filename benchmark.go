package main

import (
	"context"
	"flag"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"git.fiblab.net/sim/tripplanner/router"
	"github.com/sirupsen/logrus"
)

var (
	benchmarkCount = flag.Int("benchmark.count", 1000, "the random trip count for benchmark")
	benchmarkSeed  = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
	benchmarkCPU   = flag.Int("benchmark.cpu", 1, "the cpu count for benchmark")
)

// 随机站点对、随机目标的行程规划
func randomRequests(p *Planner, count int, seed int64) []PlanRequest {
	e := rand.New(rand.NewSource(seed))
	stations := p.store.Load().Router.Network().Stations()
	reqs := make([]PlanRequest, count)
	if len(stations) == 0 {
		return nil
	}
	for i := range reqs {
		hour := e.Intn(24)
		reqs[i] = PlanRequest{
			From:      stations[e.Intn(len(stations))].Pos,
			To:        stations[e.Intn(len(stations))].Pos,
			Objective: string(router.Objectives[e.Intn(len(router.Objectives))]),
			Hour:      &hour,
		}
	}
	return reqs
}

func runBenchmark(p *Planner) {
	log.Logger.SetLevel(logrus.WarnLevel)
	reqs := randomRequests(p, *benchmarkCount, *benchmarkSeed)

	start := time.Now()
	var success atomic.Int32
	run := func(req PlanRequest) {
		if _, err := p.Plan(context.Background(), req); err != nil {
			log.Info("benchmark failed, err:", err)
			return
		}
		success.Add(1)
	}
	if *benchmarkCPU == 1 {
		for _, req := range reqs {
			run(req)
		}
	} else {
		// 设置cpu数量
		runtime.GOMAXPROCS(*benchmarkCPU)
		var wg sync.WaitGroup
		wg.Add(len(reqs))
		for _, req := range reqs {
			go func(req PlanRequest) {
				defer wg.Done()
				run(req)
			}(req)
		}
		wg.Wait()
	}
	timeCost := time.Since(start)
	avg := time.Duration(0)
	if len(reqs) > 0 {
		avg = timeCost / time.Duration(len(reqs))
	}
	log.Error(
		"benchmark finished", "\n",
		"count:", len(reqs), "\n",
		"time:", timeCost, "\n",
		"avg:", avg, "\n",
		"success:", success.Load(), "\n",
	)
}
