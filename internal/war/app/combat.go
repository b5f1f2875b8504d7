package app

import (
	"context"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"

	"go.uber.org/zap"
)

// Attack 在同一个 scope 内发起进攻。校验、结算以及双方国家/领土与战报的写入
// 在同一次提交里完成，要么全部生效要么全部不生效。
func (s *Service) Attack(ctx context.Context, attacker Key, defenderPlayer int64) (BattleResult, error) {
	target := playerTarget(defenderPlayer)
	if defenderPlayer == attacker.Player {
		err := rules.Validation(rules.ReasonSelfTarget)
		s.report(ctx, "combat.attack", attacker, target, err)
		return BattleResult{}, err
	}
	defender := targetKey(attacker, defenderPlayer)

	var res BattleResult
	err := s.store.Update(func(tx *store.Tx) error {
		an, dn := tx.Nation(attacker), tx.Nation(defender)
		ac, dc := tx.Country(attacker), tx.Country(defender)
		if err := rules.CanAttack(*an, *dn, *ac, *dc); err != nil {
			return err
		}

		ap := rules.TotalPower(s.cat, *an)
		dp := rules.TotalPower(s.cat, *dn)
		out, err := rules.Resolve(rules.CombatInput{
			AttackerPower:     ap,
			DefenderPower:     dp,
			AttackerMoney:     an.Resources[catalog.Money],
			DefenderMoney:     dn.Resources[catalog.Money],
			DefenderOil:       dn.Resources[catalog.Oil],
			DefenderTerritory: dc.Territory,
		}, s.rng, s.cfg.MinAttackPower)
		if err != nil {
			return err
		}

		now := s.now()
		applyOutcome(an, dn, dc, attacker, out, now)

		rec := entity.BattleRecord{
			ID:              s.ids.NextID(),
			Scope:           attacker.Scope,
			Attacker:        attacker.Player,
			Defender:        defenderPlayer,
			AttackerPower:   ap,
			DefenderPower:   dp,
			AttackStrength:  out.AttackStrength,
			DefenseStrength: out.DefenseStrength,
			AttackerWon:     out.AttackerWon,
			DamageRatio:     out.DamageRatio,
			StolenMoney:     out.StolenMoney,
			StolenOil:       out.StolenOil,
			LostMoney:       out.LostMoney,
			Conquered:       out.Conquered,
			At:              now,
		}
		tx.AppendBattle(rec)
		res = BattleResult{
			Record:        rec,
			AttackerXP:    out.AttackerXP,
			DefenderXP:    out.DefenderXP,
			TerritoryGain: out.TerritoryGained,
		}
		return nil
	})
	if err != nil {
		s.report(ctx, "combat.attack", attacker, target, err)
		return BattleResult{}, err
	}
	s.report(ctx, "combat.attack", attacker, target, nil,
		zap.Bool("attacker_won", res.Record.AttackerWon),
		zap.Int64("stolen_money", res.Record.StolenMoney),
		zap.Int64("lost_money", res.Record.LostMoney),
		zap.Bool("conquered", res.Record.Conquered),
	)
	return res, nil
}

func applyOutcome(an, dn *entity.Nation, dc *entity.Country, attacker Key, out rules.CombatOutcome, now time.Time) {
	an.Experience += out.AttackerXP
	dn.Experience += out.DefenderXP

	if !out.AttackerWon {
		an.Resources[catalog.Money] -= out.LostMoney
		an.BattlesLost++
		dn.BattlesWon++
		return
	}

	an.Resources[catalog.Money] += out.StolenMoney
	an.Resources[catalog.Oil] += out.StolenOil
	dn.Resources[catalog.Money] -= out.StolenMoney
	dn.Resources[catalog.Oil] -= out.StolenOil
	an.BattlesWon++
	dn.BattlesLost++

	if out.Conquered {
		by := attacker
		at := now
		dc.ConqueredBy = &by
		dc.ConquestTime = &at
		an.TerritoryConquered += out.TerritoryGained
	}
}

// BattleHistory 返回与玩家相关的最近战报（新的在前）。
func (s *Service) BattleHistory(ctx context.Context, key Key, limit int) []entity.BattleRecord {
	if limit <= 0 {
		limit = 10
	}
	var out []entity.BattleRecord
	s.store.View(func(v *store.View) {
		out = v.Battles(key, limit)
	})
	return out
}
