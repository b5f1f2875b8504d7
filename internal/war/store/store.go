package store

import (
	"sort"
	"sync"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
)

type Key = entity.Key

type Options struct {
	StartingResources int64
	MaxBattleLog      int
	Now               func() time.Time
}

// Store 独占持有全部 nation/country/alliance 记录。
// 全局只有一把读写锁：读走 RLock，所有写经 Update 串行提交。
type Store struct {
	cat        *catalog.Catalog
	starting   int64
	maxBattles int
	now        func() time.Time

	mu        sync.RWMutex
	nations   map[Key]*entity.Nation
	countries map[Key]*entity.Country
	alliances map[string]*entity.Alliance
	battles   []entity.BattleRecord
	revision  uint64

	dirtyNations     map[Key]struct{}
	dirtyCountries   map[Key]struct{}
	dirtyAlliances   map[string]struct{}
	deletedAlliances map[string]struct{}
	pendingBattles   []entity.BattleRecord
}

func New(cat *catalog.Catalog, opts Options) *Store {
	if opts.StartingResources <= 0 {
		opts.StartingResources = 1000
	}
	if opts.MaxBattleLog <= 0 {
		opts.MaxBattleLog = 10000
	}
	return &Store{
		cat:              cat,
		starting:         opts.StartingResources,
		maxBattles:       opts.MaxBattleLog,
		now:              entity.MillisClock(opts.Now),
		nations:          make(map[Key]*entity.Nation),
		countries:        make(map[Key]*entity.Country),
		alliances:        make(map[string]*entity.Alliance),
		dirtyNations:     make(map[Key]struct{}),
		dirtyCountries:   make(map[Key]struct{}),
		dirtyAlliances:   make(map[string]struct{}),
		deletedAlliances: make(map[string]struct{}),
	}
}

// GetOrCreateNation 返回副本；不存在时按初始值创建，并发调用只会创建一次。
func (s *Store) GetOrCreateNation(key Key) entity.Nation {
	s.mu.RLock()
	if n, ok := s.nations[key]; ok {
		out := n.Clone()
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nationLocked(key).Clone()
}

func (s *Store) GetOrCreateCountry(key Key) entity.Country {
	s.mu.RLock()
	if c, ok := s.countries[key]; ok {
		out := c.Clone()
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countryLocked(key).Clone()
}

func (s *Store) GetAlliance(name string) (entity.Alliance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alliances[name]
	if !ok {
		return entity.Alliance{}, false
	}
	return a.Clone(), true
}

// Alliances 按名称排序返回全部联盟副本。
func (s *Store) Alliances() []entity.Alliance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Alliance, 0, len(s.alliances))
	for _, a := range s.alliances {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) PutAlliance(a entity.Alliance) {
	_ = s.Update(func(tx *Tx) error {
		tx.PutAlliance(a)
		return nil
	})
}

func (s *Store) DeleteAlliance(name string) {
	_ = s.Update(func(tx *Tx) error {
		tx.DeleteAlliance(name)
		return nil
	})
}

// Revision 每次提交加一，用作只读缓存的失效标记。
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Update 是唯一的写入口：fn 在写锁内操作工作副本，返回 nil 才整体提交，
// 返回错误则全部丢弃，不会出现只改了一方的情况。
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s)
	if err := fn(tx); err != nil {
		return err
	}
	s.commitLocked(tx)
	return nil
}

// View 在读锁内执行只读访问，不会创建记录。fn 内不要调用 Store 的其他方法。
func (s *Store) View(fn func(v *View)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&View{s: s})
}

func (s *Store) nationLocked(key Key) *entity.Nation {
	if n, ok := s.nations[key]; ok {
		return n
	}
	n := entity.NewNation(s.cat, key, s.starting, s.now())
	s.nations[key] = &n
	s.dirtyNations[key] = struct{}{}
	s.revision++
	return &n
}

func (s *Store) countryLocked(key Key) *entity.Country {
	if c, ok := s.countries[key]; ok {
		return c
	}
	c := entity.NewCountry(key)
	s.countries[key] = &c
	s.dirtyCountries[key] = struct{}{}
	s.revision++
	return &c
}

func (s *Store) commitLocked(tx *Tx) {
	if tx.empty() {
		return
	}
	for k, n := range tx.nations {
		s.nations[k] = n
		s.dirtyNations[k] = struct{}{}
	}
	for k, c := range tx.countries {
		s.countries[k] = c
		s.dirtyCountries[k] = struct{}{}
	}
	for name, a := range tx.alliances {
		if a == nil {
			delete(s.alliances, name)
			delete(s.dirtyAlliances, name)
			s.deletedAlliances[name] = struct{}{}
			continue
		}
		s.alliances[name] = a
		s.dirtyAlliances[name] = struct{}{}
		delete(s.deletedAlliances, name)
	}
	if len(tx.battles) > 0 {
		s.battles = append(s.battles, tx.battles...)
		s.pendingBattles = append(s.pendingBattles, tx.battles...)
		if len(s.battles) > s.maxBattles {
			keep := s.maxBattles / 2
			s.battles = append([]entity.BattleRecord(nil), s.battles[len(s.battles)-keep:]...)
		}
	}
	s.revision++
}
