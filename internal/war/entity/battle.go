package entity

import "time"

// BattleRecord 是一条只追加的战报。
type BattleRecord struct {
	ID              int64     `json:"id,string"`
	Scope           int64     `json:"scope,string"`
	Attacker        int64     `json:"attacker,string"`
	Defender        int64     `json:"defender,string"`
	AttackerPower   int64     `json:"attacker_power"`
	DefenderPower   int64     `json:"defender_power"`
	AttackStrength  float64   `json:"attack_strength"`
	DefenseStrength float64   `json:"defense_strength"`
	AttackerWon     bool      `json:"attacker_won"`
	DamageRatio     float64   `json:"damage_ratio"`
	StolenMoney     int64     `json:"stolen_money"`
	StolenOil       int64     `json:"stolen_oil"`
	LostMoney       int64     `json:"lost_money"`
	Conquered       bool      `json:"conquered"`
	At              time.Time `json:"at"`
}
