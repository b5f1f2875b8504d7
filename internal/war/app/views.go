package app

import (
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/rules"
)

// NationView 是状态查询的结果：国家、领土与当前战力。
type NationView struct {
	Nation      entity.Nation  `json:"nation"`
	Country     entity.Country `json:"country"`
	Power       int64          `json:"power"`
	LevelRaised bool           `json:"level_raised"`
}

type CollectResult struct {
	Cycles     int64                          `json:"cycles"`
	Delta      map[catalog.ResourceKind]int64 `json:"delta"`
	Experience int64                          `json:"experience"`
}

type PurchaseResult struct {
	Unit       catalog.Unit `json:"unit"`
	Quantity   int64        `json:"quantity"`
	Cost       int64        `json:"cost"`
	Experience int64        `json:"experience"`
	MoneyLeft  int64        `json:"money_left"`
}

type ShopView struct {
	Level     int            `json:"level"`
	Money     int64          `json:"money"`
	Available []catalog.Unit `json:"available"`
	Locked    []catalog.Unit `json:"locked"`
}

type UpgradeResult struct {
	Upgrade    catalog.Upgrade `json:"upgrade"`
	Level      int             `json:"level"`
	Cost       int64           `json:"cost"`
	Experience int64           `json:"experience"`
}

// CapitalEntry 是首都某个建筑的当前等级与下一级费用（满级时 NextCost 为 0）。
type CapitalEntry struct {
	Upgrade  catalog.Upgrade `json:"upgrade"`
	Level    int             `json:"level"`
	NextCost int64           `json:"next_cost"`
	Maxed    bool            `json:"maxed"`
}

type BattleResult struct {
	Record        entity.BattleRecord `json:"record"`
	AttackerXP    int64               `json:"attacker_xp"`
	DefenderXP    int64               `json:"defender_xp"`
	TerritoryGain int64               `json:"territory_gain"`
}

type IntelReport struct {
	Target   int64             `json:"target,string"`
	Power    int64             `json:"power"`
	Level    int               `json:"level"`
	Money    int64             `json:"money"`
	Oil      int64             `json:"oil"`
	Uranium  int64             `json:"uranium"`
	TopUnits []rules.UnitStack `json:"top_units"`
}

type SpyResult struct {
	Success      bool         `json:"success"`
	Chance       float64      `json:"chance"`
	Intelligence int64        `json:"intelligence"`
	Report       *IntelReport `json:"report,omitempty"`
}

type LeaveResult struct {
	Alliance  string `json:"alliance"`
	Disbanded bool   `json:"disbanded"`
	NewLeader *Key   `json:"new_leader,omitempty"`
}

// Invitation 由适配层投递给被邀请人；引擎不保存邀请状态。
type Invitation struct {
	Alliance string `json:"alliance"`
	From     Key    `json:"from"`
	To       Key    `json:"to"`
}

type MemberView struct {
	Key      Key       `json:"key"`
	JoinedAt time.Time `json:"joined_at"`
	Level    int       `json:"level"`
	Power    int64     `json:"power"`
	Leader   bool      `json:"leader"`
}

type AllianceView struct {
	Name       string       `json:"name"`
	Leader     Key          `json:"leader"`
	CreatedAt  time.Time    `json:"created_at"`
	TotalPower int64        `json:"total_power"`
	Members    []MemberView `json:"members"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Player   int64  `json:"player,string"`
	Level    int    `json:"level"`
	Power    int64  `json:"power"`
	Alliance string `json:"alliance,omitempty"`
}
