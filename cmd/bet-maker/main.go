package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/betting"
	bmcache "github.com/radieske/line-bet-platform-poc/internal/bet-maker/cache"
	bmhttp "github.com/radieske/line-bet-platform-poc/internal/bet-maker/http"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/line"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/producer"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/repo"
	sharedcache "github.com/radieske/line-bet-platform-poc/internal/shared/cache"
	"github.com/radieske/line-bet-platform-poc/internal/shared/config"
	"github.com/radieske/line-bet-platform-poc/internal/shared/db"
	"github.com/radieske/line-bet-platform-poc/internal/shared/kafka"
	"github.com/radieske/line-bet-platform-poc/internal/shared/logger"
	"github.com/radieske/line-bet-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers de auditoria
	placedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedWriter.Close()
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	// Métricas Prometheus do cache de listagem
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_events_cache_hits_total", Help: "hits no cache da listagem"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_events_cache_misses_total", Help: "misses no cache da listagem"})
	prometheus.MustRegister(hits, misses)

	eventsCache := bmcache.New(rdb, cfg.EventsCacheTTL)
	eventsCache.OnHit = func() { hits.Inc() }
	eventsCache.OnMiss = func() { misses.Inc() }

	// deps
	repository := repo.NewPostgres(pg)
	lineClient := line.New(cfg.LineProviderURL)
	validator := betting.NewValidator(lineClient)
	publ := producer.NewKafkaPublisher(placedWriter, settledWriter)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	// registra o callback de notificação no line-provider (best-effort; sem o
	// registro o serviço funciona, só não liquida até alguém registrar)
	regCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := lineClient.RegisterCallback(regCtx, cfg.CallbackURL); err != nil {
		log.Warn("callback registration failed", zap.Error(err))
	} else {
		log.Info("callback registered", zap.String("url", cfg.CallbackURL))
	}
	cancel()

	api := bmhttp.NewServer(log, repository, lineClient, validator, eventsCache, publ)
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("bet-maker listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
