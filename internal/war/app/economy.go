package app

import (
	"context"
	"errors"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"

	"go.uber.org/zap"
)

// Touch 是被动结算：玩家有任何活动时调用，未到周期直接忽略。
func (s *Service) Touch(ctx context.Context, key Key) error {
	_, err := s.accrue(key)
	if err != nil && !errors.Is(err, errUnchanged) {
		s.report(ctx, "economy.touch", key, "", err)
		return err
	}
	return nil
}

// Collect 是主动领取：未满一个生产周期返回 ACCRUAL_NOT_DUE。
func (s *Service) Collect(ctx context.Context, key Key) (CollectResult, error) {
	res, err := s.accrue(key)
	if errors.Is(err, errUnchanged) {
		err = rules.Precondition(rules.ReasonAccrualNotDue)
	}
	if err != nil {
		s.report(ctx, "economy.collect", key, "", err)
		return CollectResult{}, err
	}
	s.report(ctx, "economy.collect", key, "", nil,
		zap.Int64("cycles", res.Cycles),
		zap.Int64("money", res.Delta[catalog.Money]),
	)
	return res, nil
}

// accrue 在一次提交里同时更新资源、经验与最后活跃时间。
func (s *Service) accrue(key Key) (CollectResult, error) {
	var res CollectResult
	err := s.store.Update(func(tx *store.Tx) error {
		n := tx.Nation(key)
		now := s.now()
		acc := rules.Accrue(s.cat, *n, now.Sub(n.LastActive), s.cfg.ProductionInterval)
		if !acc.Due() {
			return errUnchanged
		}
		for kind, v := range acc.Delta {
			n.Resources[kind] += v
		}
		n.Experience += acc.Experience
		n.Touch(now)
		res = CollectResult{Cycles: acc.Cycles, Delta: acc.Delta, Experience: acc.Experience}
		return nil
	})
	return res, err
}

// Upgrade 升级首都建筑：只扣金钱，经验 += 费用/100。
func (s *Service) Upgrade(ctx context.Context, key Key, kind catalog.UpgradeKind) (UpgradeResult, error) {
	var res UpgradeResult
	err := s.store.Update(func(tx *store.Tx) error {
		n := tx.Nation(key)
		def, cost, err := rules.CanUpgrade(s.cat, *n, kind)
		if err != nil {
			return err
		}
		n.Resources[catalog.Money] -= cost
		n.Capital[kind]++
		xp := rules.UpgradeExperience(cost)
		n.Experience += xp
		res = UpgradeResult{Upgrade: def, Level: n.Capital[kind], Cost: cost, Experience: xp}
		return nil
	})
	s.report(ctx, "capital.upgrade", key, string(kind), err)
	if err != nil {
		return UpgradeResult{}, err
	}
	return res, nil
}

// CapitalView 按静态表顺序列出首都建筑等级与下一级费用。
func (s *Service) CapitalView(ctx context.Context, key Key) []CapitalEntry {
	n := s.store.GetOrCreateNation(key)
	return capitalEntries(s.cat, n)
}

func capitalEntries(cat *catalog.Catalog, n entity.Nation) []CapitalEntry {
	defs := cat.Upgrades()
	out := make([]CapitalEntry, 0, len(defs))
	for _, def := range defs {
		level := n.Capital[def.Kind]
		e := CapitalEntry{Upgrade: def, Level: level}
		if level >= def.MaxLevel {
			e.Maxed = true
		} else {
			e.NextCost = rules.UpgradeCost(def, level)
		}
		out = append(out, e)
	}
	return out
}
