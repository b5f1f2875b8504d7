package actor

import (
	"context"
	"errors"
	"time"

	"WarSim/internal/shared/transport"
	"WarSim/internal/war/actors"
	"WarSim/internal/war/dc"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 10 * time.Second

type RuntimeError struct {
	Code    transport.BizCode
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Options struct {
	AskTimeout   time.Duration
	CloseTimeout time.Duration
}

// Runtime 包装 actor system 与唯一的 flush actor，对外实现同步 Flush。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	flusher *protoactor.PID
	timeout time.Duration
}

func NewRuntime(d *dc.WarDC, opts Options) *Runtime {
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewFlushActor(d, opts.CloseTimeout)
	})
	flusher := root.Spawn(props)

	return &Runtime{
		system:  system,
		root:    root,
		flusher: flusher,
		timeout: opts.AskTimeout,
	}
}

// Shutdown 停掉 flush actor（触发最后一次落库）并关闭 actor system。
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var err error
	if r.root != nil && r.flusher != nil {
		done := make(chan error, 1)
		go func() { done <- r.root.StopFuture(r.flusher).Wait() }()
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if r.system != nil {
		r.system.Shutdown()
	}
	return err
}

// Flush 让 flush actor 同步落库一次，等待写库结果。
func (r *Runtime) Flush(ctx context.Context) error {
	res, err := r.request(r.flusher, &actors.FlushRequest{}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	resp, ok := res.(*actors.FlushResponse)
	if !ok {
		return &RuntimeError{Code: transport.SystemError, Message: "actor 返回类型非法"}
	}
	return resp.Err
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.Unavailable,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) transport.BizCode {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.BizCodeFromError(err)
}
