package main

import (
	"context"
	"fmt"

	"git.fiblab.net/sim/tripplanner/config"
	"git.fiblab.net/sim/tripplanner/dataset"
	"git.fiblab.net/sim/tripplanner/router"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"git.fiblab.net/sim/tripplanner/router/fare"
	"git.fiblab.net/sim/tripplanner/router/network"
)

func parsePath(name, s string) (*dataset.Path, error) {
	p, err := dataset.NewPath(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// NewRouter 读取全部数据集并构建初始路由器
func NewRouter(ctx context.Context, cfg config.Config, loader *dataset.Loader) (*router.Router, error) {
	paths := make(map[string]*dataset.Path)
	for name, s := range map[string]string{
		"stations":    cfg.Data.Stations,
		"fare_tables": cfg.Data.FareTables,
		"fare_model":  cfg.Data.FareModel,
		"ridership":   cfg.Data.Ridership,
		"aliases":     cfg.Data.Aliases,
	} {
		p, err := parsePath(name, s)
		if err != nil {
			return nil, err
		}
		paths[name] = p
	}

	aliases, err := loader.Aliases(ctx, paths["aliases"])
	if err != nil {
		log.Warnf("aliases unavailable, use built-in aliases: %v", err)
		aliases = network.DefaultAliases()
	}
	stations, err := loader.Stations(ctx, paths["stations"])
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	tables, err := loader.FareTables(ctx, paths["fare_tables"])
	if err != nil {
		// 票价表缺失时由模型与公式回退
		log.Warnf("fare tables unavailable, use fare models only: %v", err)
		tables = fare.Tables{}
	}
	model, err := loader.FareModel(ctx, paths["fare_model"])
	if err != nil {
		// 票价模型缺失时回退到全局常量
		log.Warnf("fare model unavailable, use fallback formula: %v", err)
		model = fare.Model{}
	}
	ridership, err := loader.Ridership(ctx, paths["ridership"])
	if err != nil {
		log.Warnf("ridership unavailable, use default daily ridership: %v", err)
		ridership = nil
	}

	opts := []network.Option{network.WithAliases(aliases)}
	if cfg.Data.Shapes != "" {
		tracks, err := dataset.LoadTracks(cfg.Data.Shapes, cfg.Data.Trips, aliases)
		if err != nil {
			log.Warnf("gtfs shapes unavailable, use straight-line distances: %v", err)
		} else {
			opts = append(opts, network.WithTrackDistance(tracks))
		}
	}
	net := network.BuildGraph(stations, opts...)
	log.Infof("station graph built: %d stations, %d edges", net.Len(), net.Graph().EdgeCount())

	return router.New(
		net,
		cfg.Tariff,
		fare.NewResolver(tables, model, aliases, cfg.Tariff),
		crowd.NewModel(cfg.Crowd, ridership, aliases),
	), nil
}
