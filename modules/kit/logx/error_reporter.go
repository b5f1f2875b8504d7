package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

type codeTextProvider interface {
	CodeText() string
}

type msgProvider interface {
	Msg() string
}

type dataProvider interface {
	Data() map[string]any
}

type stackProvider interface {
	Stack() []uintptr
}

type reasonProvider interface {
	Reason() string
}

// opProvider 由存储层的包装错误实现（repo.war.Save 之类的 op + 集合/表等参数）。
type opProvider interface {
	Operation() string
	MetaFields() map[string]any
}

type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Op         string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 沿整条错误链收集错误码、reason、data 与存储 op。
// 外层优先：同名 data 以更靠近调用方的一层为准。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var cp codeTextProvider
	if errors.As(err, &cp) {
		out.Code = cp.CodeText()
	}
	var mp msgProvider
	if errors.As(err, &mp) {
		out.Msg = mp.Msg()
	}
	var sp stackProvider
	if errors.As(err, &sp) {
		out.Origin, out.Stack = formatStack(sp.Stack(), 32)
	}

	for cur, depth := err, 0; cur != nil && depth < maxChainDepth; cur, depth = errors.Unwrap(cur), depth+1 {
		if rp, ok := cur.(reasonProvider); ok && out.Reason == "" {
			out.Reason = rp.Reason()
		}
		if dp, ok := cur.(dataProvider); ok {
			out.Data = mergeMissing(out.Data, dp.Data())
		}
		if op, ok := cur.(opProvider); ok {
			if out.Op == "" {
				out.Op = op.Operation()
			}
			out.Data = mergeMissing(out.Data, op.MetaFields())
		}
		if depth > 0 {
			out.CauseChain = append(out.CauseChain, describeLink(cur))
		}
	}
	return out
}

// Fields 把提取结果转成 sys 日志字段，空值不输出。
func (l ErrorLog) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 7)
	if l.Code != "" {
		fields = append(fields, zap.String("error_code", l.Code))
	}
	if l.Reason != "" {
		fields = append(fields, zap.String("reason", l.Reason))
	}
	if l.Op != "" {
		fields = append(fields, zap.String("op", l.Op))
	}
	if len(l.CauseChain) != 0 {
		fields = append(fields, zap.Strings("cause_chain", l.CauseChain))
	}
	if len(l.Data) != 0 {
		fields = append(fields, zap.Any("error_data", l.Data))
	}
	if l.Origin != "" {
		fields = append(fields, zap.String("origin_caller", l.Origin))
	}
	if l.Stack != "" {
		fields = append(fields, zap.String("stack_origin", l.Stack))
	}
	return fields
}

const maxChainDepth = 20

// describeLink 给 cause 链上的一层起个短名字：错误码、存储 op，或类型加消息。
func describeLink(err error) string {
	switch e := err.(type) {
	case codeTextProvider:
		return e.CodeText()
	case opProvider:
		return e.Operation()
	default:
		return fmt.Sprintf("%T: %v", err, err)
	}
}

func mergeMissing(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if dst == nil {
			dst = make(map[string]any, len(src))
		}
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}

// formatStack 跳过 runtime 内部帧，第一帧即错误被转换成系统错误的位置。
func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 || maxFrames <= 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		}
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
