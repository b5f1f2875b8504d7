package actors

import (
	"context"
	"time"

	"WarSim/internal/war/dc"

	"github.com/asynkron/protoactor-go/actor"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// FlushRequest 请求一次同步落库，回复 *FlushResponse。
type FlushRequest struct{}

type FlushResponse struct {
	Err error
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

// FlushActor 持有 WarDC：定时 tick 触发异步 flush，FlushRequest 触发同步 flush。
// 所有 flush 都在 actor 邮箱里串行执行。
type FlushActor struct {
	state        State
	dc           *dc.WarDC
	closeTimeout time.Duration
	flushStop    chan struct{}
}

func NewFlushActor(d *dc.WarDC, closeTimeout time.Duration) *FlushActor {
	if closeTimeout <= 0 {
		closeTimeout = 3 * time.Second
	}
	return &FlushActor{
		state:        None,
		dc:           d,
		closeTimeout: closeTimeout,
	}
}

func (f *FlushActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		f.state = Online
		f.startFlushLoop(ctx)
	case *actor.Stopping:
		f.stopFlushLoop()
		f.state = Stopping
		closeCtx, cancel := context.WithTimeout(context.Background(), f.closeTimeout)
		defer cancel()
		if err := f.dc.Close(closeCtx); err != nil {
			ctx.Logger().Error("war dc close failed", "err", err)
		}
	case *actor.Stopped:
		f.stopFlushLoop()
		f.state = Offline
	case *actor.Restarting:
		f.stopFlushLoop()
	case flushTick:
		if f.state != Online {
			return
		}
		f.dc.Flush(context.TODO())
	case *FlushRequest:
		if msg == nil || f.state != Online {
			ctx.Respond(&FlushResponse{Err: errNotOnline})
			return
		}
		ctx.Respond(&FlushResponse{Err: f.dc.FlushSync(context.TODO())})
	default:
	}
}

func (f *FlushActor) State() State {
	return f.state
}

func (f *FlushActor) startFlushLoop(ctx actor.Context) {
	if f.flushStop != nil {
		return
	}
	interval := f.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	f.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(f.flushStop, interval)
}

func (f *FlushActor) stopFlushLoop() {
	if f.flushStop == nil {
		return
	}
	close(f.flushStop)
	f.flushStop = nil
}
