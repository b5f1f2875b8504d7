package rules

import (
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
)

// DefaultProductionInterval 是一个生产周期的长度。
const DefaultProductionInterval = 5 * time.Minute

type Accrual struct {
	Cycles     int64
	Delta      map[catalog.ResourceKind]int64
	Experience int64
}

func (a Accrual) Due() bool { return a.Cycles > 0 }

// Accrue 计算 elapsed 时间内的产出：周期数向下取整，每周期产量由静态表公式给出，
// 经验 = 金钱增量 / 10。周期数为 0 时 Delta 为空。
func Accrue(cat *catalog.Catalog, n entity.Nation, elapsed, interval time.Duration) Accrual {
	if interval <= 0 {
		interval = DefaultProductionInterval
	}
	if elapsed < interval {
		return Accrual{}
	}
	cycles := int64(elapsed / interval)
	delta := make(map[catalog.ResourceKind]int64, 10)
	for _, kind := range cat.ResourceKinds() {
		delta[kind] = cat.Income(kind, n.Capital) * cycles
	}
	return Accrual{
		Cycles:     cycles,
		Delta:      delta,
		Experience: delta[catalog.Money] / 10,
	}
}

// UpgradeCost = 费用系数 × (当前等级 + 1)。
func UpgradeCost(def catalog.Upgrade, level int) int64 {
	return def.CostMultiplier * int64(level+1)
}

// UpgradeExperience 是建筑升级获得的经验：费用 / 100。
func UpgradeExperience(cost int64) int64 {
	return cost / 100
}

// CanUpgrade 校验首都建筑升级；成功返回建筑定义与费用。
func CanUpgrade(cat *catalog.Catalog, n entity.Nation, kind catalog.UpgradeKind) (catalog.Upgrade, int64, error) {
	def, ok := cat.Upgrade(kind)
	if !ok {
		return catalog.Upgrade{}, 0, NotFound(ReasonUnknownUpgrade).WithData("upgrade", string(kind))
	}
	level := n.Capital[kind]
	if level >= def.MaxLevel {
		return def, 0, Precondition(ReasonUpgradeMaxLevel).WithDataMap(map[string]any{
			"upgrade":   string(kind),
			"max_level": def.MaxLevel,
		})
	}
	cost := UpgradeCost(def, level)
	if have := n.Resources[catalog.Money]; have < cost {
		return def, cost, Precondition(ReasonInsufficientFunds).WithDataMap(map[string]any{
			"need": cost,
			"have": have,
		})
	}
	return def, cost, nil
}
