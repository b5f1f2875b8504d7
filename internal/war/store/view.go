package store

import (
	"WarSim/internal/war/entity"
)

// View 是读锁内的只读视图。返回的指针指向 store 内部记录，禁止修改，也不要带出回调。
type View struct {
	s *Store
}

func (v *View) Nation(key Key) (*entity.Nation, bool) {
	n, ok := v.s.nations[key]
	return n, ok
}

func (v *View) Country(key Key) (*entity.Country, bool) {
	c, ok := v.s.countries[key]
	return c, ok
}

func (v *View) Alliance(name string) (*entity.Alliance, bool) {
	a, ok := v.s.alliances[name]
	return a, ok
}

// EachNation 遍历某个 scope 下的全部国家，顺序不保证。
func (v *View) EachNation(scope int64, fn func(n *entity.Nation)) {
	for k, n := range v.s.nations {
		if k.Scope == scope {
			fn(n)
		}
	}
}

// Battles 按时间倒序返回与 player 相关的最近 limit 条战报。
func (v *View) Battles(key Key, limit int) []entity.BattleRecord {
	var out []entity.BattleRecord
	for i := len(v.s.battles) - 1; i >= 0 && len(out) < limit; i-- {
		b := v.s.battles[i]
		if b.Scope != key.Scope {
			continue
		}
		if b.Attacker == key.Player || b.Defender == key.Player {
			out = append(out, b)
		}
	}
	return out
}
