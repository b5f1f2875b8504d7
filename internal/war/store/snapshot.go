package store

import (
	"sort"

	"WarSim/internal/war/entity"
)

// Dirty 表示是否有尚未取走的增量。
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirtyLocked()
}

func (s *Store) dirtyLocked() bool {
	return len(s.dirtyNations) > 0 || len(s.dirtyCountries) > 0 || len(s.dirtyAlliances) > 0 ||
		len(s.deletedAlliances) > 0 || len(s.pendingBattles) > 0
}

// BuildSnapshot 取走当前全部增量并生成快照；没有增量时返回 false。
func (s *Store) BuildSnapshot(version uint64) (*entity.WarStateSnap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirtyLocked() {
		return nil, false
	}

	snap := &entity.WarStateSnap{Version: version}
	for k := range s.dirtyNations {
		if n, ok := s.nations[k]; ok {
			snap.Nations = append(snap.Nations, n.Clone())
		}
	}
	for k := range s.dirtyCountries {
		if c, ok := s.countries[k]; ok {
			snap.Countries = append(snap.Countries, c.Clone())
		}
	}
	for name := range s.dirtyAlliances {
		if a, ok := s.alliances[name]; ok {
			snap.Alliances = append(snap.Alliances, a.Clone())
		}
	}
	for name := range s.deletedAlliances {
		snap.DeletedAlliances = append(snap.DeletedAlliances, name)
	}
	snap.Battles = s.pendingBattles

	sort.Slice(snap.Nations, func(i, j int) bool { return keyLess(snap.Nations[i].Key, snap.Nations[j].Key) })
	sort.Slice(snap.Countries, func(i, j int) bool { return keyLess(snap.Countries[i].Key, snap.Countries[j].Key) })
	sort.Slice(snap.Alliances, func(i, j int) bool { return snap.Alliances[i].Name < snap.Alliances[j].Name })
	sort.Strings(snap.DeletedAlliances)

	s.dirtyNations = make(map[Key]struct{})
	s.dirtyCountries = make(map[Key]struct{})
	s.dirtyAlliances = make(map[string]struct{})
	s.deletedAlliances = make(map[string]struct{})
	s.pendingBattles = nil
	return snap, true
}

// Hydrate 用持久化层加载的全量状态替换内存态，启动时调用一次。
// 会补齐静态表里新增的资源/兵种/建筑 key，不产生增量。
func (s *Store) Hydrate(state *entity.WarState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nations = make(map[Key]*entity.Nation)
	s.countries = make(map[Key]*entity.Country)
	s.alliances = make(map[string]*entity.Alliance)
	s.battles = nil
	if state != nil {
		for _, n := range state.Nations {
			n := n.Clone()
			n.Normalize(s.cat)
			s.nations[n.Key] = &n
		}
		for _, c := range state.Countries {
			c := c.Clone()
			s.countries[c.Key] = &c
		}
		for _, a := range state.Alliances {
			a := a.Clone()
			s.alliances[a.Name] = &a
		}
		battles := state.Battles
		if len(battles) > s.maxBattles {
			battles = battles[len(battles)-s.maxBattles:]
		}
		s.battles = append([]entity.BattleRecord(nil), battles...)
	}
	s.dirtyNations = make(map[Key]struct{})
	s.dirtyCountries = make(map[Key]struct{})
	s.dirtyAlliances = make(map[string]struct{})
	s.deletedAlliances = make(map[string]struct{})
	s.pendingBattles = nil
	s.revision++
}

func keyLess(a, b Key) bool {
	if a.Scope != b.Scope {
		return a.Scope < b.Scope
	}
	return a.Player < b.Player
}
