package sqlite

import (
	"WarSim/internal/shared/serverconfig"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open 打开（或创建）sqlite 文件库，单机部署与本地调试使用。
// WAL + busy_timeout 让后台落库与只读查询可以并存。
func Open(cfg serverconfig.SQLiteConfig, l *zap.Logger) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	conn, err := sqlx.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 写入只有后台 writer 一个协程，单连接避免 SQLITE_BUSY
	conn.SetMaxOpenConns(1)
	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	l.Info("open sqlite success", zap.String("path", cfg.Path))
	return conn, nil
}
