package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"git.fiblab.net/sim/tripplanner/router/calc"
	"git.fiblab.net/sim/tripplanner/router/crowd"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Listen string `yaml:"listen" validate:"required"`
	// 为空时不启动pprof
	Pprof string `yaml:"pprof"`
}

// Data 各数据集位置，格式为 {fspath} 或 {db}.{coll}
type Data struct {
	MongoURI   string `yaml:"mongo_uri"`
	Stations   string `yaml:"stations" validate:"required"`
	FareTables string `yaml:"fare_tables"`
	FareModel  string `yaml:"fare_model"`
	Ridership  string `yaml:"ridership"`
	Aliases    string `yaml:"aliases"`
	// GTFS文件，仅支持本地文件
	Shapes string `yaml:"shapes"`
	Trips  string `yaml:"trips"`
}

type Routing struct {
	WalkThresholdM float64 `yaml:"walk_threshold_m" validate:"gt=0"`
	MinLegM        float64 `yaml:"min_leg_m" validate:"gte=0"`
}

type Remote struct {
	OSRMURL      string        `yaml:"osrm_url" validate:"omitempty,url"`
	EstimatorURL string        `yaml:"estimator_url" validate:"omitempty,url"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	CacheTTL     time.Duration `yaml:"cache_ttl" validate:"gte=0"`
}

type Updater struct {
	// 拥挤度刷新周期，0表示关闭
	Interval time.Duration `yaml:"interval" validate:"gte=0"`
}

type Config struct {
	Server  Server         `yaml:"server"`
	Data    Data           `yaml:"data"`
	Tariff  calc.Constants `yaml:"tariff"`
	Crowd   crowd.Params   `yaml:"crowd"`
	Routing Routing        `yaml:"routing"`
	Remote  Remote         `yaml:"remote"`
	Updater Updater        `yaml:"updater"`
}

func Default() Config {
	return Config{
		Server: Server{Listen: "localhost:52201", Pprof: ""},
		Data:   Data{Stations: "data/station.json"},
		Tariff: calc.DefaultConstants(),
		Crowd:  crowd.DefaultParams(),
		Routing: Routing{
			WalkThresholdM: 300,
			MinLegM:        50,
		},
		Remote: Remote{
			Timeout:  5 * time.Second,
			CacheTTL: time.Hour,
		},
		Updater: Updater{Interval: time.Hour},
	}
}

// 环境变量覆盖配置文件
var ENV_OVERRIDES = map[string]func(*Config, string){
	"MONGO_URI":        func(c *Config, v string) { c.Data.MongoURI = v },
	"OSRM_URL":         func(c *Config, v string) { c.Remote.OSRMURL = v },
	"AI_ESTIMATOR_URL": func(c *Config, v string) { c.Remote.EstimatorURL = v },
	"LISTEN":           func(c *Config, v string) { c.Server.Listen = v },
	"STATIONS":         func(c *Config, v string) { c.Data.Stations = v },
}

// Load 读取.env、YAML配置文件（可为空）并校验，未配置项使用默认值
func Load(file string, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env: %w", err)
		}
		log.Debug("no .env file found, using process environment")
	}
	cfg := Default()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", file, err)
		}
	}
	for key, apply := range ENV_OVERRIDES {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			apply(&cfg, v)
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
