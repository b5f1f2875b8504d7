package app

import (
	"context"
	"errors"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"

	"go.uber.org/zap"
)

// Status 重新计算等级（只升不降，同时抬高领土等级）并返回当前视图。
func (s *Service) Status(ctx context.Context, key Key) (NationView, error) {
	var view NationView
	err := s.store.Update(func(tx *store.Tx) error {
		n := tx.Nation(key)
		c := tx.Country(key)
		lvl := rules.ComputeLevel(s.cat, *n, s.cfg.MaxLevel)
		raised := lvl > n.Level
		if raised {
			n.Level = lvl
			if lvl > c.Level {
				c.Level = lvl
			}
		}
		view = NationView{
			Nation:      n.Clone(),
			Country:     c.Clone(),
			Power:       rules.TotalPower(s.cat, *n),
			LevelRaised: raised,
		}
		if !raised {
			return errUnchanged
		}
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return NationView{}, err
	}
	if view.LevelRaised {
		s.report(ctx, "nation.level_up", key, "", nil, zap.Int("level", view.Nation.Level))
	}
	return view, nil
}

// Purchase 购买兵种；校验在提交锁内重做，并发购买不会透支。
func (s *Service) Purchase(ctx context.Context, key Key, kind catalog.UnitKind, qty int64) (PurchaseResult, error) {
	var res PurchaseResult
	err := s.store.Update(func(tx *store.Tx) error {
		n := tx.Nation(key)
		u, total, err := rules.CanAffordUnit(s.cat, *n, kind, qty)
		if err != nil {
			return err
		}
		n.Resources[catalog.Money] -= total
		n.Military[kind] += qty
		xp := rules.PurchaseExperience(total)
		n.Experience += xp
		res = PurchaseResult{Unit: u, Quantity: qty, Cost: total, Experience: xp, MoneyLeft: n.Resources[catalog.Money]}
		return nil
	})
	s.report(ctx, "military.purchase", key, string(kind), err, zap.Int64("quantity", qty))
	if err != nil {
		return PurchaseResult{}, err
	}
	return res, nil
}

// CanAfford 只做校验不扣款，供适配层提前提示。
func (s *Service) CanAfford(ctx context.Context, key Key, kind catalog.UnitKind, qty int64) error {
	n := s.store.GetOrCreateNation(key)
	_, _, err := rules.CanAffordUnit(s.cat, n, kind, qty)
	return err
}

// Shop 按分类顺序列出兵种，并按已存等级分成可购买与未解锁两组。
func (s *Service) Shop(ctx context.Context, key Key) ShopView {
	n := s.store.GetOrCreateNation(key)
	view := ShopView{Level: n.Level, Money: n.Resources[catalog.Money]}
	for _, cat := range catalog.Categories {
		for _, u := range s.cat.UnitsByCategory(cat) {
			if n.Level >= u.LevelReq {
				view.Available = append(view.Available, u)
			} else {
				view.Locked = append(view.Locked, u)
			}
		}
	}
	return view
}

// Power 返回当前战力（不触发等级刷新）。
func (s *Service) Power(ctx context.Context, key Key) int64 {
	return rules.TotalPower(s.cat, s.store.GetOrCreateNation(key))
}
