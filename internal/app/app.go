package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/restaurant/internal/health"
	"github.com/vladislavdragonenkov/restaurant/internal/service/outbox"
	"github.com/vladislavdragonenkov/restaurant/internal/version"
)

// outboxDegradedThreshold — размер backlog, после которого /healthz сообщает degraded.
const outboxDegradedThreshold = 100

// Run выполняет демонстрационный сценарий и отправляет накопленные кухонные
// тикеты в Kafka (если заданы брокеры). С MetricsAddr процесс продолжает
// обслуживать HTTP и доставлять новые тикеты в фоне до отмены ctx.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	logger := log.WithField("component", "app")
	deps := NewDependencies(cfg, out, logger)

	if err := RunDemo(out, deps); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}

	dispatcher, closeKitchen := connectKitchen(cfg, deps)
	defer closeKitchen()

	if dispatcher != nil {
		result := dispatcher.Drain(ctx)
		logger.WithFields(log.Fields{
			"sent":          result.Sent,
			"failed":        result.Failed,
			"dead_lettered": result.DeadLettered,
		}).Info("kitchen tickets published")
	}

	if cfg.MetricsAddr == "" {
		return nil
	}

	srv := startMetricsServer(ctx, cfg.MetricsAddr, logger, newHealthHandler(deps))
	delivered := serveKitchen(ctx, dispatcher)

	<-ctx.Done()
	logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
	shutdownHTTP(srv, logger)
	<-delivered
	return ctx.Err()
}

// serveKitchen запускает фоновую доставку тикетов. Канал закрывается,
// когда доставка остановлена; для nil dispatcher он закрыт сразу.
func serveKitchen(ctx context.Context, dispatcher *outbox.Dispatcher) <-chan struct{} {
	done := make(chan struct{})
	if dispatcher == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		dispatcher.Run(ctx)
	}()
	return done
}

func newHealthHandler(deps *Dependencies) *healthcheck.Handler {
	handler := healthcheck.NewHandler(version.GetVersion())
	handler.Register("order_store", healthcheck.NewOrderStoreChecker(deps.Store))
	handler.Register("outbox", healthcheck.NewOutboxChecker(deps.OutboxRepo, outboxDegradedThreshold))
	return handler
}

// startMetricsServer запускает HTTP-обработчики /metrics и health-проверок.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.Live)
	mux.HandleFunc("/readyz", healthHandler.Ready)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
