package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.fiblab.net/sim/tripplanner/config"
	"git.fiblab.net/sim/tripplanner/dataset"
	"git.fiblab.net/sim/tripplanner/remote"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	// 配置信息
	configPath = flag.String("config", "", "yaml config file (empty means defaults)")
	envPath    = flag.String("env", ".env", "dotenv file, missing file is ignored")
	listen     = flag.String("listen", "", "http listening address, overrides config")
	logLevel   = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")

	// 性能测试
	benchmark = flag.Bool("benchmark", false, "benchmark mode")
	pprofAddr = flag.String("pprof", "", "pprof listening address, overrides config")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}
	if level := logrus.GetLevel(); level != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *pprofAddr != "" {
		cfg.Server.Pprof = *pprofAddr
	}

	// 加载数据并构建路由器
	loader := dataset.NewLoader(cfg.Data.MongoURI)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Minute)
	r, err := NewRouter(loadCtx, cfg, loader)
	cancelLoad()
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}
	if err := loader.Close(context.Background()); err != nil {
		log.Warnf("failed to close mongo client: %v", err)
	}
	store := NewStore(r)

	if cfg.Server.Pprof != "" {
		// 启动pprof
		startHTTPDebugger(cfg.Server.Pprof)
	}

	if *benchmark {
		// 性能测试
		runBenchmark(NewPlanner(store, nil, nil, cfg.Routing))
		return
	}

	var osrm *remote.OSRM
	if cfg.Remote.OSRMURL != "" {
		osrm = remote.NewOSRM(cfg.Remote.OSRMURL, cfg.Remote.Timeout, cfg.Remote.CacheTTL)
	}
	var estimator *remote.Estimator
	if cfg.Remote.EstimatorURL != "" {
		estimator = remote.NewEstimator(cfg.Remote.EstimatorURL, cfg.Remote.Timeout)
	}
	planner := NewPlanner(store, osrm, estimator, cfg.Routing)

	// 拥挤度更新
	ctx, cancel := context.WithCancel(context.Background())
	go NewCrowdUpdater(store, cfg.Updater.Interval).Run(ctx)

	// 使用HTTP/2 w.o. TLS
	s := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: h2c.NewHandler(NewTripServer(store, planner).Handler(), &http2.Server{}),
	}

	// 优雅退出
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Info("stopping...")
		go func() {
			<-signalCh
			os.Exit(1) // 强制结束
		}()
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()

	log.Infof("server listening at %v", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to serve: %v", err)
	}
	time.Sleep(1 * time.Second) // 延迟等待"优雅退出"
	log.Info("tripplanner closes")
}
