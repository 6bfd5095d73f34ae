// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Command lobbyd runs one lobby session and drives it from line commands on stdin.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/common"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/config"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/gamedata"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker/shuffle"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker/skillbalance"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/notify"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warn("unable to read .env file: ", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scope := envelope.NewRootScope(ctx, "lobbyd", common.GenerateUUID()).WithLobby(cfg.LobbyID)
	defer scope.Finish()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	lobbyMetrics := metrics.NewMetrics(registry)
	if cfg.MetricsAddr != "" {
		go serveMetrics(scope, cfg.MetricsAddr, registry)
	}

	provider, recorder, closeProvider := setupGameData(scope, cfg)
	defer closeProvider()

	notifier, closeNotifier := setupNotifier(scope, cfg)
	defer closeNotifier()

	engine, err := matchmaker.NewEngine(cfg.LobbyID, cfg.Capacity(), notifier, lobbyMetrics)
	if err != nil {
		scope.Log.Fatal("unable to create lobby: ", err)
	}
	defer engine.Close()

	estimator, err := skillbalance.NewEstimator(cfg.SkillEstimator)
	if err != nil {
		scope.Log.Fatal(err)
	}
	cache := skillbalance.NewScoreCache(cfg.SkillCacheTTL(), lobbyMetrics)

	c := &console{
		engine:   engine,
		shuffle:  shuffle.New(),
		ranked:   skillbalance.New(cfg.LobbyID, provider, estimator, cache, lobbyMetrics),
		recorder: recorder,
		cache:    cache,
		out:      os.Stdout,
	}

	scope.Log.
		WithField("capacity", cfg.Capacity()).
		WithField("estimator", estimator.Name()).
		Info("lobby session started")

	if err = c.run(scope, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		scope.Log.Error("command loop stopped: ", err)
	}
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func serveMetrics(scope *envelope.Scope, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	scope.Log.Infof("serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		scope.Log.Error("metrics server stopped: ", err)
	}
}

// setupGameData uses Postgres when configured, otherwise an empty in-memory history.
func setupGameData(scope *envelope.Scope, cfg *config.Config) (gamedata.Provider, gameRecorder, func()) {
	if cfg.PostgresURL == "" {
		static := gamedata.NewStaticProvider()
		return static, staticRecorder{static}, func() {}
	}

	pool, err := gamedata.Connect(scope.Ctx, cfg.PostgresURL)
	if err != nil {
		scope.Log.Fatal(err)
	}

	store := gamedata.NewPostgresStore(pool)
	if err = store.Migrate(scope.Ctx); err != nil {
		pool.Close()
		scope.Log.Fatal(err)
	}

	return store, store, pool.Close
}

// setupNotifier always logs events, and pushes them to Redis when configured.
func setupNotifier(scope *envelope.Scope, cfg *config.Config) (matchmaker.Notifier, func()) {
	logNotifier := notify.LogNotifier{Mention: "#" + cfg.LobbyID}
	if cfg.RedisAddr == "" {
		return logNotifier, func() {}
	}

	client, err := notify.ConnectRedis(scope.Ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		scope.Log.Fatal(err)
	}

	redisNotifier := notify.NewRedisNotifier(client, cfg.NotifyQueueName, "#"+cfg.LobbyID, cfg.ChannelTopic)

	return notify.Multi{logNotifier, redisNotifier}, func() { _ = client.Close() }
}
