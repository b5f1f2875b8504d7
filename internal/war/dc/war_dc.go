package dc

import (
	"context"
	"sync"
	"time"

	"WarSim/internal/war/app/port"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/store"
	"WarSim/modules/kit/errx"
	"WarSim/modules/kit/logx"

	"go.uber.org/zap"
)

type Options struct {
	FlushEvery  time.Duration
	RetryDelay  time.Duration
	MaxRetries  int
	SaveTimeout time.Duration
	Logger      logx.Logger
}

// WarDC 是内存态与持久化层之间的数据中心：
// 启动时全量加载；运行中脏检查 + 同步取快照 + 异步写库。
// 写库失败的快照会合并回待写槽，下次写入时一起重试，增量不会丢。
type WarDC struct {
	repo        port.StateRepository
	store       *store.Store
	flushEvery  time.Duration
	retryDelay  time.Duration
	maxRetries  int
	saveTimeout time.Duration
	log         logx.Logger

	mu      sync.Mutex
	pending *entity.WarStateSnap
	version uint64
	closed  bool

	// saveMu 保证“取待写快照 + 写库 + 失败重排”整体串行，旧快照不会覆盖新快照
	saveMu sync.Mutex

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewWarDC(repo port.StateRepository, st *store.Store, opts Options) *WarDC {
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 3000 * time.Millisecond
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logx.Nop()
	}
	d := &WarDC{
		repo:        repo,
		store:       st,
		flushEvery:  opts.FlushEvery,
		retryDelay:  opts.RetryDelay,
		maxRetries:  opts.MaxRetries,
		saveTimeout: opts.SaveTimeout,
		log:         opts.Logger,
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 从持久化层全量加载并替换 store 的内存态。
func (d *WarDC) Load(ctx context.Context) error {
	state, err := d.repo.Load(ctx)
	if err != nil {
		return errx.ErrPersistence.WithCause(err).WithData("op", "load")
	}
	if state == nil {
		state = &entity.WarState{}
	}
	d.store.Hydrate(state)
	d.log.Info("war state loaded",
		zap.Int("nations", len(state.Nations)),
		zap.Int("countries", len(state.Countries)),
		zap.Int("alliances", len(state.Alliances)),
		zap.Int("battles", len(state.Battles)),
	)
	return nil
}

// Flush 取走当前增量交给后台写库，不等待写库结果。
func (d *WarDC) Flush(ctx context.Context) {
	s, ok := d.buildNextSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

// FlushSync 取走当前增量并在调用方 goroutine 内写库。
// 失败时快照并回待写槽，返回 PERSISTENCE_ERROR。
func (d *WarDC) FlushSync(ctx context.Context) error {
	s, _ := d.buildNextSnapshot()

	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	if older := d.popPending(); older != nil {
		if s == nil {
			s = older
		} else {
			s.Merge(older)
		}
	}
	if s.Empty() {
		return nil
	}
	if err := d.repo.Save(ctx, s); err != nil {
		d.requeueOnError(s, false)
		return errx.ErrPersistence.WithCause(err).WithData("version", s.Version)
	}
	return nil
}

func (d *WarDC) Dirty() bool {
	return d.store.Dirty()
}

// HasPending 表示是否还有已取出但未写成功的快照。
func (d *WarDC) HasPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *WarDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Close 做最后一次 flush 并等待后台写库结束；仍有未写成功的快照时返回错误。
func (d *WarDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if d.HasPending() {
		return errx.ErrPersistence.WithData("op", "close")
	}
	return nil
}

func (d *WarDC) buildNextSnapshot() (*entity.WarStateSnap, bool) {
	if !d.store.Dirty() {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	return d.store.BuildSnapshot(version)
}

// enqueueLatest 放入更新的快照；待写槽里的旧快照合并进来，不会被直接丢弃。
func (d *WarDC) enqueueLatest(s *entity.WarStateSnap) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.pending != nil {
		s.Merge(d.pending)
	}
	d.pending = s
	closed := d.closed
	d.mu.Unlock()

	if !closed {
		d.signal()
	}
}

func (d *WarDC) popPending() *entity.WarStateSnap {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 把写失败的快照并回待写槽；槽里已有的更新快照优先。
func (d *WarDC) requeueOnError(s *entity.WarStateSnap, wake bool) {
	d.mu.Lock()
	if d.pending == nil {
		d.pending = s
	} else {
		d.pending.Merge(s)
	}
	closed := d.closed
	d.mu.Unlock()

	if wake && !closed {
		d.signal()
	}
}

func (d *WarDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *WarDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

// consumePending 写出待写快照；连续失败 maxRetries 次后放弃本轮，等下一次唤醒。
func (d *WarDC) consumePending() {
	failures := 0
	for {
		ok, err := d.saveOnce()
		if ok {
			return
		}
		if err == nil {
			failures = 0
			continue
		}
		failures++
		d.log.Error("war state save failed",
			zap.Int("attempt", failures),
			zap.Error(err),
		)
		if failures >= d.maxRetries {
			return
		}
		time.Sleep(d.retryDelay)
	}
}

// saveOnce 写一次待写快照；槽为空时返回 ok=true。
func (d *WarDC) saveOnce() (bool, error) {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	s := d.popPending()
	if s == nil {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.saveTimeout)
	defer cancel()
	if err := d.repo.Save(ctx, s); err != nil {
		d.requeueOnError(s, false)
		return false, err
	}
	return false, nil
}
