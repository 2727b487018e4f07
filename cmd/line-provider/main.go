package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	lphttp "github.com/radieske/line-bet-platform-poc/internal/line-provider/http"
	"github.com/radieske/line-bet-platform-poc/internal/line-provider/notifier"
	"github.com/radieske/line-bet-platform-poc/internal/line-provider/store"
	"github.com/radieske/line-bet-platform-poc/internal/shared/config"
	"github.com/radieske/line-bet-platform-poc/internal/shared/logger"
	"github.com/radieske/line-bet-platform-poc/internal/shared/metrics"
	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Store em memória com a linha inicial
	st := store.New()
	seed(st)

	// Métricas Prometheus do fan-out
	delivered := prometheus.NewCounter(prometheus.CounterOpts{Name: "line_callback_deliveries_total", Help: "entregas de callback com sucesso"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "line_callback_failures_total", Help: "entregas de callback com falha"})
	prometheus.MustRegister(delivered, failed)

	// Notifier: fan-out best-effort com timeout por entrega
	notif := notifier.New(log, cfg.CallbackTimeout)
	notif.OnDelivered = func() { delivered.Inc() }
	notif.OnFailed = func() { failed.Inc() }

	// metrics/health (sem dependências externas, health é sempre ok)
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })

	api := lphttp.NewServer(log, st, notif)
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("line-provider listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

// seed carrega a linha inicial de eventos
func seed(st *store.Store) {
	now := time.Now().Unix()
	open := events.StateOpen

	for _, e := range []struct {
		id    string
		coeff float64
		dl    int64
	}{
		{"1", 1.2, now + 600},
		{"2", 1.15, now + 60},
		{"3", 1.67, now + 90},
	} {
		coeff, dl := e.coeff, e.dl
		_ = st.Upsert(e.id, store.EventPatch{Coefficient: &coeff, Deadline: &dl, State: &open})
	}
}
