package model

import (
	"encoding/json"
	"fmt"
	"time"

	"WarSim/internal/war/entity"
)

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

func NationToRow(n entity.Nation) (NationRow, error) {
	res, err := encodeJSON(n.Resources)
	if err != nil {
		return NationRow{}, fmt.Errorf("encode resources: %w", err)
	}
	mil, err := encodeJSON(n.Military)
	if err != nil {
		return NationRow{}, fmt.Errorf("encode military: %w", err)
	}
	capital, err := encodeJSON(n.Capital)
	if err != nil {
		return NationRow{}, fmt.Errorf("encode capital: %w", err)
	}
	return NationRow{
		Scope:              n.Key.Scope,
		Player:             n.Key.Player,
		Level:              n.Level,
		Experience:         n.Experience,
		Resources:          res,
		Military:           mil,
		Capital:            capital,
		BattlesWon:         n.BattlesWon,
		BattlesLost:        n.BattlesLost,
		TerritoryConquered: n.TerritoryConquered,
		Alliance:           n.Alliance,
		LastActive:         millis(n.LastActive),
		Intelligence:       n.Intelligence,
		CreatedAt:          millis(n.CreatedAt),
	}, nil
}

// RowToNation 只还原存储内容；缺失的静态表 key 由 store.Hydrate 统一补齐。
func RowToNation(r NationRow) (entity.Nation, error) {
	n := entity.Nation{
		Key:                entity.Key{Scope: r.Scope, Player: r.Player},
		Level:              r.Level,
		Experience:         r.Experience,
		BattlesWon:         r.BattlesWon,
		BattlesLost:        r.BattlesLost,
		TerritoryConquered: r.TerritoryConquered,
		Alliance:           r.Alliance,
		LastActive:         fromMillis(r.LastActive),
		Intelligence:       r.Intelligence,
		CreatedAt:          fromMillis(r.CreatedAt),
	}
	if err := decodeJSON(r.Resources, &n.Resources); err != nil {
		return entity.Nation{}, fmt.Errorf("decode resources of %s: %w", n.Key, err)
	}
	if err := decodeJSON(r.Military, &n.Military); err != nil {
		return entity.Nation{}, fmt.Errorf("decode military of %s: %w", n.Key, err)
	}
	if err := decodeJSON(r.Capital, &n.Capital); err != nil {
		return entity.Nation{}, fmt.Errorf("decode capital of %s: %w", n.Key, err)
	}
	return n, nil
}

func CountryToRow(c entity.Country) CountryRow {
	r := CountryRow{
		Scope:           c.Key.Scope,
		Player:          c.Key.Player,
		Name:            c.Name,
		Level:           c.Level,
		Population:      c.Population,
		Territory:       c.Territory,
		DefenseLevel:    c.DefenseLevel,
		Fortifications:  c.Fortifications,
		RebellionChance: c.RebellionChance,
	}
	if c.ConqueredBy != nil {
		r.ConqueredBy = c.ConqueredBy.String()
	}
	if c.ConquestTime != nil {
		r.ConquestTime = millis(*c.ConquestTime)
	}
	return r
}

func RowToCountry(r CountryRow) (entity.Country, error) {
	c := entity.Country{
		Key:             entity.Key{Scope: r.Scope, Player: r.Player},
		Name:            r.Name,
		Level:           r.Level,
		Population:      r.Population,
		Territory:       r.Territory,
		DefenseLevel:    r.DefenseLevel,
		Fortifications:  r.Fortifications,
		RebellionChance: r.RebellionChance,
	}
	if r.ConqueredBy != "" {
		by, err := entity.ParseKey(r.ConqueredBy)
		if err != nil {
			return entity.Country{}, fmt.Errorf("decode conquered_by of %s: %w", c.Key, err)
		}
		c.ConqueredBy = &by
	}
	if r.ConquestTime != 0 {
		at := fromMillis(r.ConquestTime)
		c.ConquestTime = &at
	}
	return c, nil
}

type memberJSON struct {
	Scope    int64 `json:"scope"`
	Player   int64 `json:"player"`
	JoinedAt int64 `json:"joined_at"`
}

func AllianceToRow(a entity.Alliance) (AllianceRow, error) {
	members := make([]memberJSON, 0, len(a.Members))
	for _, m := range a.Members {
		members = append(members, memberJSON{Scope: m.Key.Scope, Player: m.Key.Player, JoinedAt: millis(m.JoinedAt)})
	}
	raw, err := encodeJSON(members)
	if err != nil {
		return AllianceRow{}, fmt.Errorf("encode members: %w", err)
	}
	return AllianceRow{
		Name:         a.Name,
		LeaderScope:  a.Leader.Scope,
		LeaderPlayer: a.Leader.Player,
		Members:      raw,
		CreatedAt:    millis(a.CreatedAt),
		TotalPower:   a.TotalPower,
	}, nil
}

func RowToAlliance(r AllianceRow) (entity.Alliance, error) {
	var members []memberJSON
	if err := decodeJSON(r.Members, &members); err != nil {
		return entity.Alliance{}, fmt.Errorf("decode members of %q: %w", r.Name, err)
	}
	a := entity.Alliance{
		Name:       r.Name,
		Leader:     entity.Key{Scope: r.LeaderScope, Player: r.LeaderPlayer},
		CreatedAt:  fromMillis(r.CreatedAt),
		TotalPower: r.TotalPower,
		Members:    make([]entity.Member, 0, len(members)),
	}
	for _, m := range members {
		a.Members = append(a.Members, entity.Member{
			Key:      entity.Key{Scope: m.Scope, Player: m.Player},
			JoinedAt: fromMillis(m.JoinedAt),
		})
	}
	return a, nil
}

func BattleToRow(b entity.BattleRecord) BattleRow {
	return BattleRow{
		ID:              b.ID,
		Scope:           b.Scope,
		Attacker:        b.Attacker,
		Defender:        b.Defender,
		AttackerPower:   b.AttackerPower,
		DefenderPower:   b.DefenderPower,
		AttackStrength:  b.AttackStrength,
		DefenseStrength: b.DefenseStrength,
		AttackerWon:     b.AttackerWon,
		DamageRatio:     b.DamageRatio,
		StolenMoney:     b.StolenMoney,
		StolenOil:       b.StolenOil,
		LostMoney:       b.LostMoney,
		Conquered:       b.Conquered,
		At:              millis(b.At),
	}
}

func RowToBattle(r BattleRow) entity.BattleRecord {
	return entity.BattleRecord{
		ID:              r.ID,
		Scope:           r.Scope,
		Attacker:        r.Attacker,
		Defender:        r.Defender,
		AttackerPower:   r.AttackerPower,
		DefenderPower:   r.DefenderPower,
		AttackStrength:  r.AttackStrength,
		DefenseStrength: r.DefenseStrength,
		AttackerWon:     r.AttackerWon,
		DamageRatio:     r.DamageRatio,
		StolenMoney:     r.StolenMoney,
		StolenOil:       r.StolenOil,
		LostMoney:       r.LostMoney,
		Conquered:       r.Conquered,
		At:              fromMillis(r.At),
	}
}
