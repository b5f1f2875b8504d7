package rules

import (
	"math"
	"sort"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
)

const (
	spySuccessIntel = 10
	spyFailIntel    = 1
	topUnitStacks   = 5
)

// SpyChance = min(0.8, 0.3 + 0.1 × 情报局等级)。
func SpyChance(intelligenceLevel int) float64 {
	return math.Min(0.8, 0.3+0.1*float64(intelligenceLevel))
}

// SpyIntelGain 返回侦察后情报值的增量。
func SpyIntelGain(success bool) int64 {
	if success {
		return spySuccessIntel
	}
	return spyFailIntel
}

type UnitStack struct {
	Kind  catalog.UnitKind `json:"kind"`
	Count int64            `json:"count"`
	Power int64            `json:"power"`
}

// TopUnits 返回按 数量×单兵战力 排序的前 limit 个兵种；同值按兵种名排序。
func TopUnits(cat *catalog.Catalog, n entity.Nation, limit int) []UnitStack {
	if limit <= 0 {
		limit = topUnitStacks
	}
	var stacks []UnitStack
	for kind, count := range n.Military {
		if count <= 0 {
			continue
		}
		u, ok := cat.Unit(kind)
		if !ok {
			continue
		}
		stacks = append(stacks, UnitStack{Kind: kind, Count: count, Power: count * u.Power})
	}
	sort.Slice(stacks, func(i, j int) bool {
		if stacks[i].Power != stacks[j].Power {
			return stacks[i].Power > stacks[j].Power
		}
		return stacks[i].Kind < stacks[j].Kind
	})
	if len(stacks) > limit {
		stacks = stacks[:limit]
	}
	return stacks
}
