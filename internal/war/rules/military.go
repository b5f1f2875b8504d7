package rules

import (
	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
)

// TotalPower = Σ 数量 × 单兵战力 × (1 + 0.1 × 军校等级)，最后统一向下取整。
// 用整数算 (10+等级)/10，避免浮点误差。未知兵种和非正数量忽略。
func TotalPower(cat *catalog.Catalog, n entity.Nation) int64 {
	var base int64
	for kind, count := range n.Military {
		if count <= 0 {
			continue
		}
		u, ok := cat.Unit(kind)
		if !ok {
			continue
		}
		base += count * u.Power
	}
	academy := int64(n.Capital[catalog.MilitaryAcademy])
	if academy < 0 {
		academy = 0
	}
	return base * (10 + academy) / 10
}

// ComputeLevel = 1 + 战力/1000 + 资源总量/10000 + 经验/1000，夹在 [1, maxLevel]。
func ComputeLevel(cat *catalog.Catalog, n entity.Nation, maxLevel int) int {
	lvl := 1 + TotalPower(cat, n)/1000 + n.TotalResources()/10000 + n.Experience/1000
	if lvl < 1 {
		return 1
	}
	if lvl > int64(maxLevel) {
		return maxLevel
	}
	return int(lvl)
}

// CanAffordUnit 校验购买；成功返回兵种定义与总价。
func CanAffordUnit(cat *catalog.Catalog, n entity.Nation, kind catalog.UnitKind, qty int64) (catalog.Unit, int64, error) {
	if qty <= 0 {
		return catalog.Unit{}, 0, Validation(ReasonInvalidQuantity).WithData("quantity", qty)
	}
	u, ok := cat.Unit(kind)
	if !ok {
		return catalog.Unit{}, 0, NotFound(ReasonUnknownUnit).WithData("unit", string(kind))
	}
	if n.Level < u.LevelReq {
		return u, 0, Precondition(ReasonLevelTooLow).WithDataMap(map[string]any{
			"unit":     string(kind),
			"required": u.LevelReq,
			"level":    n.Level,
		})
	}
	total := u.Cost * qty
	if total/qty != u.Cost {
		return u, 0, Validation(ReasonInvalidQuantity).WithData("quantity", qty)
	}
	if have := n.Resources[catalog.Money]; have < total {
		return u, total, Precondition(ReasonInsufficientFunds).WithDataMap(map[string]any{
			"need": total,
			"have": have,
		})
	}
	return u, total, nil
}

// PurchaseExperience 是购买获得的经验：总价 / 10。
func PurchaseExperience(total int64) int64 {
	return total / 10
}
