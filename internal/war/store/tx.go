package store

import (
	"WarSim/internal/war/entity"
)

// Tx 持有一次 Update 内的工作副本。只能在 Update 的回调里使用。
type Tx struct {
	s         *Store
	nations   map[Key]*entity.Nation
	countries map[Key]*entity.Country
	// nil 值表示本次事务删除了该联盟
	alliances map[string]*entity.Alliance
	battles   []entity.BattleRecord
}

func newTx(s *Store) *Tx {
	return &Tx{
		s:         s,
		nations:   make(map[Key]*entity.Nation, 2),
		countries: make(map[Key]*entity.Country, 2),
		alliances: make(map[string]*entity.Alliance, 1),
	}
}

func (tx *Tx) empty() bool {
	return len(tx.nations) == 0 && len(tx.countries) == 0 && len(tx.alliances) == 0 && len(tx.battles) == 0
}

// Nation 返回可修改的工作副本，不存在时按初始值创建。
func (tx *Tx) Nation(key Key) *entity.Nation {
	if n, ok := tx.nations[key]; ok {
		return n
	}
	var n entity.Nation
	if cur, ok := tx.s.nations[key]; ok {
		n = cur.Clone()
	} else {
		n = entity.NewNation(tx.s.cat, key, tx.s.starting, tx.s.now())
	}
	tx.nations[key] = &n
	return &n
}

func (tx *Tx) Country(key Key) *entity.Country {
	if c, ok := tx.countries[key]; ok {
		return c
	}
	var c entity.Country
	if cur, ok := tx.s.countries[key]; ok {
		c = cur.Clone()
	} else {
		c = entity.NewCountry(key)
	}
	tx.countries[key] = &c
	return &c
}

// Alliance 返回可修改的工作副本；不存在（或本事务已删除）返回 false。
func (tx *Tx) Alliance(name string) (*entity.Alliance, bool) {
	if a, ok := tx.alliances[name]; ok {
		return a, a != nil
	}
	cur, ok := tx.s.alliances[name]
	if !ok {
		return nil, false
	}
	a := cur.Clone()
	tx.alliances[name] = &a
	return &a, true
}

func (tx *Tx) PutAlliance(a entity.Alliance) {
	c := a.Clone()
	tx.alliances[a.Name] = &c
}

func (tx *Tx) DeleteAlliance(name string) {
	tx.alliances[name] = nil
}

func (tx *Tx) AppendBattle(b entity.BattleRecord) {
	tx.battles = append(tx.battles, b)
}
