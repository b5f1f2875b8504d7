package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/shared/logs"
	"WarSim/internal/shared/serverconfig"
	rpc "WarSim/internal/shared/transport/grpc"
	httpserver "WarSim/internal/shared/transport/http"
	"WarSim/internal/shared/utils"
	waractor "WarSim/internal/war/actor"
	"WarSim/internal/war/app"
	"WarSim/internal/war/dc"
	warhttp "WarSim/internal/war/interfaces/handler/http"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"
	"WarSim/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	serverconfig.Load(*cfgPath, func(next serverconfig.Config) {
		logs.SetLevel(next.Log.Level)
	})
	conf := serverconfig.Conf
	if err := logs.Init("warsim", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	cat, err := catalog.Load(conf.Game.CatalogDir)
	if err != nil {
		logs.Fatal("load catalog failed", zap.Error(err))
	}
	logs.Info("catalog loaded",
		zap.Int("units", len(cat.UnitKinds())),
		zap.Int("resources", len(cat.ResourceKinds())),
		zap.Int("upgrades", len(cat.UpgradeKinds())),
	)

	repo, closeRepo, err := openRepository(context.Background(), conf.Storage)
	if err != nil {
		logs.Fatal("open repository failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	st := store.New(cat, store.Options{
		StartingResources: conf.Game.StartingResources,
		MaxBattleLog:      conf.Game.MaxBattleLog,
	})
	log := logx.NewZapLogger(logs.Logger())
	warDC := dc.NewWarDC(repo, st, dc.Options{
		FlushEvery: conf.Persist.FlushEvery,
		Logger:     log.Named("dc"),
	})
	if err := warDC.Load(context.Background()); err != nil {
		logs.Fatal("load war state failed", zap.Error(err))
	}
	runtime := waractor.NewRuntime(warDC, waractor.Options{CloseTimeout: conf.Persist.CloseTimeout})

	nodeID, err := utils.NodeIDFromEnv()
	if err != nil {
		logs.Fatal("invalid node id", zap.Error(err))
	}
	ids, err := utils.NewSnowflake(nodeID)
	if err != nil {
		logs.Fatal("create id generator failed", zap.Error(err))
	}
	seed := conf.Game.RNGSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	svc, err := app.NewService(app.Config{
		ProductionInterval: conf.Game.ProductionInterval,
		MinAttackPower:     conf.Game.MinAttackPower,
		MaxLevel:           conf.Game.MaxLevel,
		LeaderboardCache:   conf.Game.LeaderboardCache,
	}, app.Deps{
		Catalog: cat,
		Store:   st,
		Rand:    rules.NewRand(seed),
		IDs:     ids,
		Flusher: runtime,
		Logger:  log.Named("war"),
	})
	if err != nil {
		logs.Fatal("create war service failed", zap.Error(err))
	}

	// HTTP 运维接口
	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	httpAddr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	hs := httpserver.NewHttpServer(httpAddr, engine, log.Named("access"))
	warhttp.NewHttpHandler(svc).RegisterRoutes(hs.Group())
	go func() {
		logs.Info("http server start", zap.String("addr", httpAddr))
		if err := hs.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logs.Fatal("http server failed", zap.Error(err))
		}
	}()

	// gRPC 健康检查
	grpcServer, health := rpc.NewServer(log.Named("grpc"))
	var grpcLis net.Listener
	if conf.GRPCServer.Port > 0 {
		grpcAddr := fmt.Sprintf("%s:%d", conf.GRPCServer.Host, conf.GRPCServer.Port)
		grpcLis, err = net.Listen("tcp", grpcAddr)
		if err != nil {
			logs.Fatal("listen grpc failed", zap.String("addr", grpcAddr), zap.Error(err))
		}
		go func() {
			logs.Info("grpc health server start", zap.String("addr", grpcAddr))
			if err := grpcServer.Serve(grpcLis); err != nil {
				logs.Error("grpc server stopped", zap.Error(err))
			}
		}()
	}
	health.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logs.Info("收到退出信号，准备优雅退出")
	health.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Persist.CloseTimeout+5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		logs.Error("http server shutdown failed", zap.Error(err))
	}
	if grpcLis != nil {
		grpcServer.GracefulStop()
	}
	// 先停 actor（触发最后一次落库），再关闭底层连接
	if err := runtime.Shutdown(shutdownCtx); err != nil {
		logs.Error("war runtime shutdown failed", zap.Error(err))
	}
	logs.Info("warsim stopped")
}
