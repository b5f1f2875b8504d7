package rules

import (
	"math"

	"WarSim/internal/war/entity"
)

const (
	DefaultMinAttackPower int64 = 100

	winXPAttacker  = 100
	winXPDefender  = 50
	lossXPAttacker = 25
	lossXPDefender = 75
)

// CanAttack 只看国家等级差与联盟关系；自攻由调用方提前拦截。
func CanAttack(attacker, defender entity.Nation, attackerCountry, defenderCountry entity.Country) error {
	if defenderCountry.Level > attackerCountry.Level*2 {
		return Precondition(ReasonTargetTooStrong).WithDataMap(map[string]any{
			"attacker_level": attackerCountry.Level,
			"defender_level": defenderCountry.Level,
		})
	}
	if attacker.Alliance != "" && attacker.Alliance == defender.Alliance {
		return Precondition(ReasonCannotAttackAlly).WithData("alliance", attacker.Alliance)
	}
	return nil
}

type CombatInput struct {
	AttackerPower     int64
	DefenderPower     int64
	AttackerMoney     int64
	DefenderMoney     int64
	DefenderOil       int64
	DefenderTerritory int64
}

// CombatOutcome 描述一场战斗的全部数值结果，由调用方落到双方记录上。
type CombatOutcome struct {
	AttackStrength  float64
	DefenseStrength float64
	AttackerWon     bool
	DamageRatio     float64
	StolenMoney     int64
	StolenOil       int64
	LostMoney       int64
	Conquered       bool
	TerritoryGained int64
	AttackerXP      int64
	DefenderXP      int64
}

// Resolve 结算一场战斗。随机数只从 r 取：先取攻防两个 [0.8,1.2) 系数，
// 进攻方胜利时再取一次判定是否攻占。
func Resolve(in CombatInput, r Rand, minPower int64) (CombatOutcome, error) {
	if minPower <= 0 {
		minPower = DefaultMinAttackPower
	}
	if in.AttackerPower < minPower {
		return CombatOutcome{}, Precondition(ReasonInsufficientPower).WithDataMap(map[string]any{
			"power":    in.AttackerPower,
			"required": minPower,
		})
	}

	out := CombatOutcome{
		AttackStrength:  float64(in.AttackerPower) * uniform(r, 0.8, 1.2),
		DefenseStrength: float64(in.DefenderPower) * uniform(r, 0.8, 1.2),
	}

	if out.AttackStrength > out.DefenseStrength {
		gap := (out.AttackStrength - out.DefenseStrength) / out.AttackStrength
		out.AttackerWon = true
		out.DamageRatio = math.Min(0.3, gap*0.5)
		out.StolenMoney = clampTake(in.DefenderMoney, out.DamageRatio)
		out.StolenOil = clampTake(in.DefenderOil, out.DamageRatio)
		out.AttackerXP = winXPAttacker
		out.DefenderXP = winXPDefender

		conquestChance := math.Min(0.1, gap*0.2)
		if r.Float64() < conquestChance {
			out.Conquered = true
			out.TerritoryGained = in.DefenderTerritory
		}
		return out, nil
	}

	gap := (out.DefenseStrength - out.AttackStrength) / out.DefenseStrength
	out.DamageRatio = math.Min(0.2, gap*0.3)
	out.LostMoney = clampTake(in.AttackerMoney, out.DamageRatio)
	out.AttackerXP = lossXPAttacker
	out.DefenderXP = lossXPDefender
	return out, nil
}

// clampTake = floor(amount × ratio)，结果落在 [0, amount]。
func clampTake(amount int64, ratio float64) int64 {
	if amount <= 0 || ratio <= 0 {
		return 0
	}
	v := int64(math.Floor(float64(amount) * ratio))
	if v > amount {
		return amount
	}
	return v
}
