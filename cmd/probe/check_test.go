package main

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	rpc "WarSim/internal/shared/transport/grpc"

	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestCheck_退出码随健康状态变化(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server, hs := rpc.NewServer(nil)
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	var out, errOut bytes.Buffer
	require.Equal(t, exitNotServing, check(lis.Addr().String(), 3*time.Second, &out, &errOut))
	require.Equal(t, "NOT_SERVING", strings.TrimSpace(out.String()))

	out.Reset()
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	require.Equal(t, exitServing, check(lis.Addr().String(), 3*time.Second, &out, &errOut))
	require.Equal(t, "SERVING", strings.TrimSpace(out.String()))
	require.Empty(t, errOut.String())
}

func TestCheck_连不上时返回失败码(t *testing.T) {
	// 占一个端口再释放，保证没有服务在监听
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	var out, errOut bytes.Buffer
	require.Equal(t, exitFailed, check(addr, 500*time.Millisecond, &out, &errOut))
	require.Empty(t, out.String())
	require.Contains(t, errOut.String(), addr)
}
