package grpc

import (
	"context"
	"fmt"

	"WarSim/modules/kit/logx"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName 是健康检查里登记的服务名。
const ServiceName = "warsim.Engine"

func dialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
	}
}

// NewServer 创建带 trace/access 日志拦截器的 grpc server，并注册标准健康检查服务。
// 返回的 health.Server 由调用方在就绪/停服时切换状态。
func NewServer(log logx.Logger) (*grpc.Server, *health.Server) {
	if log == nil {
		log = logx.Nop()
	}
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(log)),
		grpc.ChainStreamInterceptor(StreamServerTraceInterceptor(log)),
	)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, hs)
	return server, hs
}

// DialHealth 建立 grpc 连接并返回健康检查 client。
func DialHealth(addr string) (*grpc.ClientConn, healthpb.HealthClient, error) {
	// grpc.NewClient 不会立即建连，第一次 RPC 时才真正拨号
	conn, err := grpc.NewClient(addr, dialOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial warsim grpc failed: %w", err)
	}
	return conn, healthpb.NewHealthClient(conn), nil
}

// Probe 查询一次服务健康状态。
func Probe(ctx context.Context, client healthpb.HealthClient) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
