package app

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/pizzeria/internal/seed"
	grpcsvc "github.com/vladislavdragonenkov/pizzeria/internal/service/grpc"
)

func TestRun_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GRPCAddr = ""

	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.MetricsAddr = freeAddr(t)
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg)
	}()

	waitForHTTP(t, "http://"+cfg.MetricsAddr+"/readyz")
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestRun_ListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	cfg := DefaultConfig()
	cfg.GRPCAddr = busy.Addr().String()
	cfg.MetricsAddr = freeAddr(t)
	cfg.SeedDemo = false

	if err := Run(context.Background(), cfg); err == nil {
		t.Fatal("expected listen error for busy address")
	}
}

func TestNewGRPCServer_ServesPizzeriaAndHealth(t *testing.T) {
	deps := NewDependencies(DefaultConfig(), prometheus.NewRegistry(), log.WithField("test", "grpc"))
	if _, err := seed.Load(deps.Store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	server, _ := newGRPCServer(deps, deps.Logger)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := grpcsvc.NewPizzeriaClient(conn)
	report, err := client.GetSalesReport(ctx, &grpcsvc.GetSalesReportRequest{})
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if report.OrderCount != 2 {
		t.Errorf("expected 2 orders in report, got %d", report.OrderCount)
	}

	healthResp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: grpcsvc.ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if healthResp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING, got %s", healthResp.GetStatus())
	}
}
