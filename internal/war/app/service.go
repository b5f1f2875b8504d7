package app

import (
	"context"
	"errors"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/shared/utils"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"
	"WarSim/modules/kit/errx"
	"WarSim/modules/kit/logx"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

type Key = entity.Key

type Config struct {
	ProductionInterval time.Duration
	MinAttackPower     int64
	MaxLevel           int
	LeaderboardCache   int
}

// Flusher 把内存态同步写入持久化层（由 actor runtime / dc 实现）。
type Flusher interface {
	Flush(ctx context.Context) error
}

type Deps struct {
	Catalog *catalog.Catalog
	Store   *store.Store
	Rand    rules.Rand
	IDs     utils.IDGenerator
	Flusher Flusher
	Logger  logx.Logger
	Now     func() time.Time
}

// Service 是引擎对外的全部操作入口；适配层（聊天机器人、运维接口）只调用它。
type Service struct {
	cat     *catalog.Catalog
	store   *store.Store
	rng     rules.Rand
	ids     utils.IDGenerator
	flusher Flusher
	log     logx.Logger
	now     func() time.Time
	cfg     Config
	boards  *lru.Cache
}

func NewService(cfg Config, deps Deps) (*Service, error) {
	if deps.Catalog == nil || deps.Store == nil {
		return nil, errors.New("war service: catalog and store are required")
	}
	if cfg.ProductionInterval <= 0 {
		cfg.ProductionInterval = rules.DefaultProductionInterval
	}
	if cfg.MinAttackPower <= 0 {
		cfg.MinAttackPower = rules.DefaultMinAttackPower
	}
	if cfg.MaxLevel <= 0 {
		cfg.MaxLevel = 50
	}
	if cfg.LeaderboardCache <= 0 {
		cfg.LeaderboardCache = 256
	}
	boards, err := lru.New(cfg.LeaderboardCache)
	if err != nil {
		return nil, err
	}
	if deps.Rand == nil {
		deps.Rand = rules.NewRand(uint64(time.Now().UnixNano()))
	}
	if deps.IDs == nil {
		gen, err := utils.NewSnowflake(1)
		if err != nil {
			return nil, err
		}
		deps.IDs = gen
	}
	if deps.Logger == nil {
		deps.Logger = logx.Nop()
	}
	return &Service{
		cat:     deps.Catalog,
		store:   deps.Store,
		rng:     deps.Rand,
		ids:     deps.IDs,
		flusher: deps.Flusher,
		log:     deps.Logger,
		now:     entity.MillisClock(deps.Now),
		cfg:     cfg,
		boards:  boards,
	}, nil
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

// errUnchanged 让 Update 回调放弃提交；不会返回给调用方。
var errUnchanged = errors.New("unchanged")

// report 输出审计事件；业务拒绝额外打 biz 日志，技术错误打 sys 日志。
func (s *Service) report(ctx context.Context, action string, actor Key, target string, err error, fields ...zap.Field) {
	ev := logx.Event{Actor: actor.String(), Action: action, Target: target, Outcome: logx.OutcomeOK}
	if err != nil {
		ev.Reason = errx.ReasonOf(err)
		if isSysError(err) {
			ev.Outcome = logx.OutcomeFailed
			logx.ReportSysErrorWithLoggerContext(ctx, s.log, logx.NewSysLog(action, err))
		} else {
			ev.Outcome = logx.OutcomeRejected
			logx.ReportBizWithLoggerContext(ctx, s.log, logx.NewBizLogFromError(action, err))
		}
	}
	logx.ReportEvent(ctx, s.log, ev, fields...)
}

func isSysError(err error) bool {
	var e *errx.Error
	if !errors.As(err, &e) {
		return true
	}
	return e.IsSys()
}

func targetKey(actor Key, player int64) Key {
	return Key{Scope: actor.Scope, Player: player}
}

func playerTarget(player int64) string {
	return Key{Player: player}.String()
}
