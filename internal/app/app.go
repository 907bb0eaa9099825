// Package app собирает сервис пиццерии: хранилище, gRPC, HTTP-пробы, метрики и доставку событий.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/pizzeria/internal/health"
	"github.com/vladislavdragonenkov/pizzeria/internal/seed"
	grpcsvc "github.com/vladislavdragonenkov/pizzeria/internal/service/grpc"
	"github.com/vladislavdragonenkov/pizzeria/internal/version"
)

// Run запускает сервис и блокируется до отмены ctx или ошибки gRPC-сервера.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := log.WithField("component", "app")
	deps := NewDependencies(cfg, prometheus.DefaultRegisterer, logger)

	if cfg.SeedDemo {
		loaded, err := seed.Load(deps.Store)
		if err != nil {
			return fmt.Errorf("load demo data: %w", err)
		}
		logger.WithFields(log.Fields{
			"customers": len(loaded.Customers),
			"orders":    len(loaded.Orders),
		}).Info("demo data loaded")
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("order-store", healthcheck.NewStoreChecker(deps.Store))

	// Доставка событий заказов (опционально)
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	var workerWG sync.WaitGroup
	if cfg.KafkaEnabled() {
		healthHandler.RegisterChecker("outbox", healthcheck.NewOutboxChecker(deps.OutboxRepo, cfg.OutboxMaxPending))
	}
	if kafkaProducer != nil {
		worker := newOutboxWorker(cfg, deps, kafkaProducer)

		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			worker.Run(workerCtx)
		}()
		defer func() {
			stopWorker()
			workerWG.Wait()

			drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			worker.Drain(drainCtx)
			closeKafka(kafkaProducer, logger)
		}()
	}

	grpcServer, healthServer := newGRPCServer(deps, logger)
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, newHTTPMux(healthHandler))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("gRPC сервер слушает %s", lis.Addr())
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем gRPC сервер")
		healthServer.Shutdown()
		stopGRPC(grpcServer, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// newGRPCServer регистрирует PizzeriaService, gRPC health и reflection.
func newGRPCServer(deps *Dependencies, logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok2 := are.ExistingCollector.(*promgrpc.ServerMetrics); ok2 {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))

	service := grpcsvc.NewPizzeriaService(deps.Store, deps.StoreMetrics, logger.WithField("layer", "grpc"))
	grpcsvc.RegisterPizzeriaServer(grpcServer, service)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcsvc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// reflection для grpcurl
	reflection.Register(grpcServer)
	grpcMetrics.InitializeMetrics(grpcServer)

	return grpcServer, healthServer
}

// stopGRPC ждёт завершения активных вызовов не дольше timeout.
func stopGRPC(server *grpc.Server, timeout time.Duration, logger *log.Entry) {
	stoppedCh := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stoppedCh)
	}()
	select {
	case <-stoppedCh:
	case <-time.After(timeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}

// newHTTPMux собирает /metrics и HTTP-пробы.
func newHTTPMux(healthHandler *healthcheck.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	return mux
}

// startMetricsServer запускает HTTP-сервер метрик и проб.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
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
