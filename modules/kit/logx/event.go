package logx

import (
	"context"

	"go.uber.org/zap"
)

// Outcome 是审计事件的结果枚举。
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// Event 是审计事件：谁（Actor）做了什么（Action），结果如何（Outcome）。
// 引擎只输出结构化字段，不拼接给玩家看的文案。
type Event struct {
	Actor   string
	Action  string
	Outcome Outcome
	Target  string
	Reason  string
}

// ReportEvent 记录审计事件：INFO、log_type=audit。
// 审计文件由 logs 初始化时的文件输出（lumberjack 切割）承载。
func ReportEvent(ctx context.Context, l Logger, ev Event, fields ...zap.Field) {
	if l == nil {
		return
	}
	outcome := ev.Outcome
	if outcome == "" {
		outcome = OutcomeOK
	}
	base := []zap.Field{
		zap.String("log_type", "audit"),
		zap.String("actor", ev.Actor),
		zap.String("action", ev.Action),
		zap.String("outcome", string(outcome)),
	}
	if ev.Target != "" {
		base = append(base, zap.String("target", ev.Target))
	}
	if ev.Reason != "" {
		base = append(base, zap.String("reason", ev.Reason))
	}
	base = append(base, fields...)
	l.WithContext(ctx).Info("audit", base...)
}
