package model

import (
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
)

// mongo 文档结构：nation/country 以 "scope:player" 为 _id，alliance 以名称为 _id，battle 以战报 id 为 _id。

type KeyDoc struct {
	Scope  int64 `bson:"scope"`
	Player int64 `bson:"player"`
}

type NationDoc struct {
	ID                 string           `bson:"_id"`
	Scope              int64            `bson:"scope"`
	Player             int64            `bson:"player"`
	Level              int              `bson:"level"`
	Experience         int64            `bson:"experience"`
	Resources          map[string]int64 `bson:"resources"`
	Military           map[string]int64 `bson:"military"`
	Capital            map[string]int   `bson:"capital"`
	BattlesWon         int64            `bson:"battles_won"`
	BattlesLost        int64            `bson:"battles_lost"`
	TerritoryConquered int64            `bson:"territory_conquered"`
	Alliance           string           `bson:"alliance,omitempty"`
	LastActive         time.Time        `bson:"last_active"`
	Intelligence       int64            `bson:"intelligence"`
	CreatedAt          time.Time        `bson:"created_at"`
}

type CountryDoc struct {
	ID              string     `bson:"_id"`
	Scope           int64      `bson:"scope"`
	Player          int64      `bson:"player"`
	Name            string     `bson:"name"`
	Level           int        `bson:"level"`
	Population      int64      `bson:"population"`
	Territory       int64      `bson:"territory"`
	DefenseLevel    int        `bson:"defense_level"`
	Fortifications  int        `bson:"fortifications"`
	RebellionChance float64    `bson:"rebellion_chance"`
	ConqueredBy     *KeyDoc    `bson:"conquered_by,omitempty"`
	ConquestTime    *time.Time `bson:"conquest_time,omitempty"`
}

type MemberDoc struct {
	KeyDoc   `bson:",inline"`
	JoinedAt time.Time `bson:"joined_at"`
}

type AllianceDoc struct {
	Name       string      `bson:"_id"`
	Leader     KeyDoc      `bson:"leader"`
	Members    []MemberDoc `bson:"members"`
	CreatedAt  time.Time   `bson:"created_at"`
	TotalPower int64       `bson:"total_power"`
}

type BattleDoc struct {
	ID              int64     `bson:"_id"`
	Scope           int64     `bson:"scope"`
	Attacker        int64     `bson:"attacker"`
	Defender        int64     `bson:"defender"`
	AttackerPower   int64     `bson:"attacker_power"`
	DefenderPower   int64     `bson:"defender_power"`
	AttackStrength  float64   `bson:"attack_strength"`
	DefenseStrength float64   `bson:"defense_strength"`
	AttackerWon     bool      `bson:"attacker_won"`
	DamageRatio     float64   `bson:"damage_ratio"`
	StolenMoney     int64     `bson:"stolen_money"`
	StolenOil       int64     `bson:"stolen_oil"`
	LostMoney       int64     `bson:"lost_money"`
	Conquered       bool      `bson:"conquered"`
	At              time.Time `bson:"at"`
}

func keyToDoc(k entity.Key) KeyDoc { return KeyDoc{Scope: k.Scope, Player: k.Player} }

func (d KeyDoc) Key() entity.Key { return entity.Key{Scope: d.Scope, Player: d.Player} }

func stringKeys[K ~string, V any](in map[K]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func typedKeys[K ~string, V any](in map[string]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[K(k)] = v
	}
	return out
}

func NationToDoc(n entity.Nation) NationDoc {
	return NationDoc{
		ID:                 n.Key.String(),
		Scope:              n.Key.Scope,
		Player:             n.Key.Player,
		Level:              n.Level,
		Experience:         n.Experience,
		Resources:          stringKeys(n.Resources),
		Military:           stringKeys(n.Military),
		Capital:            stringKeys(n.Capital),
		BattlesWon:         n.BattlesWon,
		BattlesLost:        n.BattlesLost,
		TerritoryConquered: n.TerritoryConquered,
		Alliance:           n.Alliance,
		LastActive:         n.LastActive,
		Intelligence:       n.Intelligence,
		CreatedAt:          n.CreatedAt,
	}
}

func DocToNation(d NationDoc) entity.Nation {
	return entity.Nation{
		Key:                entity.Key{Scope: d.Scope, Player: d.Player},
		Level:              d.Level,
		Experience:         d.Experience,
		Resources:          typedKeys[catalog.ResourceKind](d.Resources),
		Military:           typedKeys[catalog.UnitKind](d.Military),
		Capital:            typedKeys[catalog.UpgradeKind](d.Capital),
		BattlesWon:         d.BattlesWon,
		BattlesLost:        d.BattlesLost,
		TerritoryConquered: d.TerritoryConquered,
		Alliance:           d.Alliance,
		LastActive:         d.LastActive,
		Intelligence:       d.Intelligence,
		CreatedAt:          d.CreatedAt,
	}
}

func CountryToDoc(c entity.Country) CountryDoc {
	d := CountryDoc{
		ID:              c.Key.String(),
		Scope:           c.Key.Scope,
		Player:          c.Key.Player,
		Name:            c.Name,
		Level:           c.Level,
		Population:      c.Population,
		Territory:       c.Territory,
		DefenseLevel:    c.DefenseLevel,
		Fortifications:  c.Fortifications,
		RebellionChance: c.RebellionChance,
		ConquestTime:    c.ConquestTime,
	}
	if c.ConqueredBy != nil {
		by := keyToDoc(*c.ConqueredBy)
		d.ConqueredBy = &by
	}
	return d
}

func DocToCountry(d CountryDoc) entity.Country {
	c := entity.Country{
		Key:             entity.Key{Scope: d.Scope, Player: d.Player},
		Name:            d.Name,
		Level:           d.Level,
		Population:      d.Population,
		Territory:       d.Territory,
		DefenseLevel:    d.DefenseLevel,
		Fortifications:  d.Fortifications,
		RebellionChance: d.RebellionChance,
		ConquestTime:    d.ConquestTime,
	}
	if d.ConqueredBy != nil {
		by := d.ConqueredBy.Key()
		c.ConqueredBy = &by
	}
	return c
}

func AllianceToDoc(a entity.Alliance) AllianceDoc {
	d := AllianceDoc{
		Name:       a.Name,
		Leader:     keyToDoc(a.Leader),
		CreatedAt:  a.CreatedAt,
		TotalPower: a.TotalPower,
		Members:    make([]MemberDoc, 0, len(a.Members)),
	}
	for _, m := range a.Members {
		d.Members = append(d.Members, MemberDoc{KeyDoc: keyToDoc(m.Key), JoinedAt: m.JoinedAt})
	}
	return d
}

func DocToAlliance(d AllianceDoc) entity.Alliance {
	a := entity.Alliance{
		Name:       d.Name,
		Leader:     d.Leader.Key(),
		CreatedAt:  d.CreatedAt,
		TotalPower: d.TotalPower,
		Members:    make([]entity.Member, 0, len(d.Members)),
	}
	for _, m := range d.Members {
		a.Members = append(a.Members, entity.Member{Key: m.Key(), JoinedAt: m.JoinedAt})
	}
	return a
}

func BattleToDoc(b entity.BattleRecord) BattleDoc {
	return BattleDoc(b)
}

func DocToBattle(d BattleDoc) entity.BattleRecord {
	return entity.BattleRecord(d)
}
