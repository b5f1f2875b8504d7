package main

import (
	"context"
	"fmt"

	sharedb "WarSim/internal/shared/infrastructure/db"
	sharedmongo "WarSim/internal/shared/infrastructure/mongo"
	sharedsqlite "WarSim/internal/shared/infrastructure/sqlite"
	"WarSim/internal/shared/logs"
	"WarSim/internal/shared/serverconfig"
	"WarSim/internal/war/app/port"
	"WarSim/internal/war/infra/persistence/memory"
	"WarSim/internal/war/infra/persistence/mongodb"
	"WarSim/internal/war/infra/persistence/mysql"
	"WarSim/internal/war/infra/persistence/sqlite"

	"go.uber.org/zap"
)

// openRepository 按 storage.driver 选择持久化实现，返回的 close 在进程退出时调用。
func openRepository(ctx context.Context, cfg serverconfig.StorageConfig) (port.StateRepository, func(), error) {
	switch cfg.Driver {
	case serverconfig.DriverMemory:
		logs.Warn("storage driver is memory, state will be lost on exit")
		return memory.NewStateRepo(), func() {}, nil

	case serverconfig.DriverMongoDB:
		client, err := sharedmongo.Open(cfg.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logs.Error("mongodb disconnect failed", zap.Error(err))
			}
		}
		repo := mongodb.NewStateRepo(client.Database(cfg.MongoDB.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case serverconfig.DriverMySQL:
		gdb, err := sharedb.Open(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo := mysql.NewStateRepo(gdb)
		if err := repo.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case serverconfig.DriverSQLite:
		sdb, err := sharedsqlite.Open(cfg.SQLite, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = sdb.Close() }
		repo := sqlite.NewStateRepo(sdb)
		if err := repo.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
