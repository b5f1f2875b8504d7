package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindInfra      Kind = "infra"
	KindDependency Kind = "dependency"
	KindCodec      Kind = "codec"
)

type Error struct {
	Op    string         // 发生位置：repo.war.Save / repo.war.Load
	Kind  Kind           // 粗分类
	Meta  map[string]any // 关键参数（scope, player, alliance...）
	Cause error          // 根因（必须保留）
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Operation 与 MetaFields 供 logx 在系统错误日志里展开 op/meta。
func (e *Error) Operation() string { return e.Op }

func (e *Error) MetaFields() map[string]any {
	if e.Kind == "" && len(e.Meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(e.Meta)+1)
	for k, v := range e.Meta {
		out[k] = v
	}
	out["infra_kind"] = string(e.Kind)
	return out
}

// Wrap：统一包装入口
func Wrap(op string, kind Kind, cause error, meta map[string]any) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause, Meta: meta}
}

// KindOf 取错误链上最近一层的 Kind，非本包错误返回 KindUnknown。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
