package entity

import (
	"fmt"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
)

// Nation 是玩家在某个群里的军事与经济状态。
type Nation struct {
	Key                Key                            `json:"key"`
	Level              int                            `json:"level"`
	Experience         int64                          `json:"experience"`
	Resources          map[catalog.ResourceKind]int64 `json:"resources"`
	Military           map[catalog.UnitKind]int64     `json:"military"`
	Capital            map[catalog.UpgradeKind]int    `json:"capital"`
	BattlesWon         int64                          `json:"battles_won"`
	BattlesLost        int64                          `json:"battles_lost"`
	TerritoryConquered int64                          `json:"territory_conquered"`
	Alliance           string                         `json:"alliance,omitempty"`
	LastActive         time.Time                      `json:"last_active"`
	Intelligence       int64                          `json:"intelligence"`
	CreatedAt          time.Time                      `json:"created_at"`
}

// NewNation 创建初始国家：每种资源 starting 个，兵力与建筑全部为 0。
func NewNation(cat *catalog.Catalog, key Key, starting int64, now time.Time) Nation {
	n := Nation{
		Key:        key,
		Level:      1,
		LastActive: now,
		CreatedAt:  now,
	}
	n.Normalize(cat)
	for k := range n.Resources {
		n.Resources[k] = starting
	}
	return n
}

// Normalize 补齐静态表里的所有 key（缺失的按 0 补），加载旧数据时使用。
func (n *Nation) Normalize(cat *catalog.Catalog) {
	if n.Resources == nil {
		n.Resources = make(map[catalog.ResourceKind]int64, 10)
	}
	for _, k := range cat.ResourceKinds() {
		if _, ok := n.Resources[k]; !ok {
			n.Resources[k] = 0
		}
	}
	if n.Military == nil {
		n.Military = make(map[catalog.UnitKind]int64, 128)
	}
	for _, k := range cat.UnitKinds() {
		if _, ok := n.Military[k]; !ok {
			n.Military[k] = 0
		}
	}
	if n.Capital == nil {
		n.Capital = make(map[catalog.UpgradeKind]int, 10)
	}
	for _, k := range cat.UpgradeKinds() {
		if _, ok := n.Capital[k]; !ok {
			n.Capital[k] = 0
		}
	}
	if n.Level < 1 {
		n.Level = 1
	}
}

// Clone 深拷贝，store 对外只交出副本。
func (n Nation) Clone() Nation {
	out := n
	out.Resources = cloneMap(n.Resources)
	out.Military = cloneMap(n.Military)
	out.Capital = cloneMap(n.Capital)
	return out
}

func (n Nation) TotalResources() int64 {
	var sum int64
	for _, v := range n.Resources {
		sum += v
	}
	return sum
}

// Touch 推进最后活跃时间，不允许回退。
func (n *Nation) Touch(now time.Time) {
	if now.After(n.LastActive) {
		n.LastActive = now
	}
}

// Country 是与 Nation 同 key 的领土/人口信息。
type Country struct {
	Key             Key        `json:"key"`
	Name            string     `json:"name"`
	Level           int        `json:"level"`
	Population      int64      `json:"population"`
	Territory       int64      `json:"territory"`
	DefenseLevel    int        `json:"defense_level"`
	Fortifications  int        `json:"fortifications"`
	RebellionChance float64    `json:"rebellion_chance"`
	ConqueredBy     *Key       `json:"conquered_by,omitempty"`
	ConquestTime    *time.Time `json:"conquest_time,omitempty"`
}

func NewCountry(key Key) Country {
	return Country{
		Key:             key,
		Name:            fmt.Sprintf("Country %d", key.Player),
		Level:           1,
		Population:      1_000_000,
		Territory:       1000,
		DefenseLevel:    1,
		RebellionChance: 0.1,
	}
}

func (c Country) Clone() Country {
	out := c
	if c.ConqueredBy != nil {
		k := *c.ConqueredBy
		out.ConqueredBy = &k
	}
	if c.ConquestTime != nil {
		t := *c.ConquestTime
		out.ConquestTime = &t
	}
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
