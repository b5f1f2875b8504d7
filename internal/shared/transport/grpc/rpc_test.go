package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestProbe_健康状态随服务切换(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server, hs := NewServer(nil)
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	conn, client, err := DialHealth(lis.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := Probe(ctx, client)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("unexpected status before ready: %v", got)
	}

	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	got, err = Probe(ctx, client)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected status after ready: %v", got)
	}
}
