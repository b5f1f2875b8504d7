package app

import (
	"context"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"

	"go.uber.org/zap"
)

// Spy 侦察同 scope 的另一名玩家。需要情报局至少 1 级；
// 成功率 min(0.8, 0.3+0.1×等级)，成功情报值 +10 并拿到报告，失败 +1。
func (s *Service) Spy(ctx context.Context, spy Key, targetPlayer int64) (SpyResult, error) {
	target := playerTarget(targetPlayer)
	if targetPlayer == spy.Player {
		err := rules.Validation(rules.ReasonSelfTarget)
		s.report(ctx, "intel.spy", spy, target, err)
		return SpyResult{}, err
	}
	tkey := targetKey(spy, targetPlayer)

	var res SpyResult
	err := s.store.Update(func(tx *store.Tx) error {
		sn := tx.Nation(spy)
		level := sn.Capital[catalog.Intelligence]
		if level < 1 {
			return rules.Precondition(rules.ReasonIntelligenceRequired)
		}
		res.Chance = rules.SpyChance(level)
		res.Success = s.rng.Float64() < res.Chance
		sn.Intelligence += rules.SpyIntelGain(res.Success)
		res.Intelligence = sn.Intelligence
		if !res.Success {
			return nil
		}
		tn := tx.Nation(tkey)
		res.Report = &IntelReport{
			Target:   targetPlayer,
			Power:    rules.TotalPower(s.cat, *tn),
			Level:    tn.Level,
			Money:    tn.Resources[catalog.Money],
			Oil:      tn.Resources[catalog.Oil],
			Uranium:  tn.Resources[catalog.Uranium],
			TopUnits: rules.TopUnits(s.cat, *tn, 5),
		}
		return nil
	})
	if err != nil {
		s.report(ctx, "intel.spy", spy, target, err)
		return SpyResult{}, err
	}
	s.report(ctx, "intel.spy", spy, target, nil, zap.Bool("success", res.Success))
	return res, nil
}
