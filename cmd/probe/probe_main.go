package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"WarSim/internal/shared/serverconfig"
	rpc "WarSim/internal/shared/transport/grpc"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	exitServing    = 0
	exitNotServing = 1
	exitFailed     = 2
)

// probe 供容器健康检查使用：SERVING 时退出码为 0。
func main() {
	addr := flag.String("addr", "", "warsim grpc 地址，默认读取配置 grpcserver")
	timeout := flag.Duration("timeout", 3*time.Second, "检查超时")
	flag.Parse()

	if *addr == "" {
		serverconfig.Load("", nil)
		*addr = fmt.Sprintf("%s:%d", serverconfig.Conf.GRPCServer.Host, serverconfig.Conf.GRPCServer.Port)
	}
	// os.Exit 不执行 defer，连接在 check 内关闭后再退出
	os.Exit(check(*addr, *timeout, os.Stdout, os.Stderr))
}

// check 查询一次健康状态并返回退出码。
func check(addr string, timeout time.Duration, stdout, stderr io.Writer) int {
	conn, client, err := rpc.DialHealth(addr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	status, err := rpc.Probe(ctx, client)
	if err != nil {
		fmt.Fprintf(stderr, "probe %s failed: %v\n", addr, err)
		return exitFailed
	}
	fmt.Fprintln(stdout, status.String())
	if status != healthpb.HealthCheckResponse_SERVING {
		return exitNotServing
	}
	return exitServing
}
