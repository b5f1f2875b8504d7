package sqlite

import (
	"context"
	"errors"
	"fmt"

	"WarSim/internal/war/entity"
	"WarSim/internal/war/errs"
	"WarSim/internal/war/infra/persistence/model"

	"github.com/jmoiron/sqlx"
)

const (
	OpLoad    = "repo.war.Load"
	OpSave    = "repo.war.Save"
	OpMigrate = "repo.war.Migrate"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS war_nation (
		scope INTEGER NOT NULL,
		player INTEGER NOT NULL,
		level INTEGER NOT NULL DEFAULT 1,
		experience INTEGER NOT NULL DEFAULT 0,
		resources TEXT NOT NULL DEFAULT '{}',
		military TEXT NOT NULL DEFAULT '{}',
		capital TEXT NOT NULL DEFAULT '{}',
		battles_won INTEGER NOT NULL DEFAULT 0,
		battles_lost INTEGER NOT NULL DEFAULT 0,
		territory_conquered INTEGER NOT NULL DEFAULT 0,
		alliance TEXT NOT NULL DEFAULT '',
		last_active INTEGER NOT NULL DEFAULT 0,
		intelligence INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (scope, player)
	)`,
	`CREATE TABLE IF NOT EXISTS war_country (
		scope INTEGER NOT NULL,
		player INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 1,
		population INTEGER NOT NULL DEFAULT 0,
		territory INTEGER NOT NULL DEFAULT 0,
		defense_level INTEGER NOT NULL DEFAULT 1,
		fortifications INTEGER NOT NULL DEFAULT 0,
		rebellion_chance REAL NOT NULL DEFAULT 0,
		conquered_by TEXT NOT NULL DEFAULT '',
		conquest_time INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (scope, player)
	)`,
	`CREATE TABLE IF NOT EXISTS war_alliance (
		name TEXT PRIMARY KEY,
		leader_scope INTEGER NOT NULL,
		leader_player INTEGER NOT NULL,
		members TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL DEFAULT 0,
		total_power INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS war_battle (
		id INTEGER PRIMARY KEY,
		scope INTEGER NOT NULL,
		attacker INTEGER NOT NULL,
		defender INTEGER NOT NULL,
		attacker_power INTEGER NOT NULL,
		defender_power INTEGER NOT NULL,
		attack_strength REAL NOT NULL,
		defense_strength REAL NOT NULL,
		attacker_won INTEGER NOT NULL,
		damage_ratio REAL NOT NULL,
		stolen_money INTEGER NOT NULL DEFAULT 0,
		stolen_oil INTEGER NOT NULL DEFAULT 0,
		lost_money INTEGER NOT NULL DEFAULT 0,
		conquered INTEGER NOT NULL,
		at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_war_nation_alliance ON war_nation (alliance)`,
	`CREATE INDEX IF NOT EXISTS idx_war_battle_scope_at ON war_battle (scope, at)`,
}

const (
	upsertNation = `INSERT INTO war_nation (scope, player, level, experience, resources, military, capital,
		battles_won, battles_lost, territory_conquered, alliance, last_active, intelligence, created_at)
	VALUES (:scope, :player, :level, :experience, :resources, :military, :capital,
		:battles_won, :battles_lost, :territory_conquered, :alliance, :last_active, :intelligence, :created_at)
	ON CONFLICT (scope, player) DO UPDATE SET
		level = excluded.level, experience = excluded.experience, resources = excluded.resources,
		military = excluded.military, capital = excluded.capital, battles_won = excluded.battles_won,
		battles_lost = excluded.battles_lost, territory_conquered = excluded.territory_conquered,
		alliance = excluded.alliance, last_active = excluded.last_active,
		intelligence = excluded.intelligence, created_at = excluded.created_at`

	upsertCountry = `INSERT INTO war_country (scope, player, name, level, population, territory, defense_level,
		fortifications, rebellion_chance, conquered_by, conquest_time)
	VALUES (:scope, :player, :name, :level, :population, :territory, :defense_level,
		:fortifications, :rebellion_chance, :conquered_by, :conquest_time)
	ON CONFLICT (scope, player) DO UPDATE SET
		name = excluded.name, level = excluded.level, population = excluded.population,
		territory = excluded.territory, defense_level = excluded.defense_level,
		fortifications = excluded.fortifications, rebellion_chance = excluded.rebellion_chance,
		conquered_by = excluded.conquered_by, conquest_time = excluded.conquest_time`

	upsertAlliance = `INSERT INTO war_alliance (name, leader_scope, leader_player, members, created_at, total_power)
	VALUES (:name, :leader_scope, :leader_player, :members, :created_at, :total_power)
	ON CONFLICT (name) DO UPDATE SET
		leader_scope = excluded.leader_scope, leader_player = excluded.leader_player,
		members = excluded.members, created_at = excluded.created_at, total_power = excluded.total_power`

	insertBattle = `INSERT INTO war_battle (id, scope, attacker, defender, attacker_power, defender_power,
		attack_strength, defense_strength, attacker_won, damage_ratio, stolen_money, stolen_oil,
		lost_money, conquered, at)
	VALUES (:id, :scope, :attacker, :defender, :attacker_power, :defender_power,
		:attack_strength, :defense_strength, :attacker_won, :damage_ratio, :stolen_money, :stolen_oil,
		:lost_money, :conquered, :at)
	ON CONFLICT (id) DO NOTHING`
)

type StateRepo struct {
	db *sqlx.DB
}

func NewStateRepo(db *sqlx.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Migrate 建表；表已存在时不做任何事。
func (r *StateRepo) Migrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errs.Wrap(OpMigrate, errs.KindInfra, errors.New("sqlite db is nil"), nil)
	}
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
		}
	}
	return nil
}

func (r *StateRepo) Load(ctx context.Context) (*entity.WarState, error) {
	if r == nil || r.db == nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, errors.New("sqlite db is nil"), nil)
	}
	var (
		nations   []model.NationRow
		countries []model.CountryRow
		alliances []model.AllianceRow
		battles   []model.BattleRow
	)
	if err := r.db.SelectContext(ctx, &nations, `SELECT * FROM war_nation`); err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_nation"})
	}
	if err := r.db.SelectContext(ctx, &countries, `SELECT * FROM war_country`); err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_country"})
	}
	if err := r.db.SelectContext(ctx, &alliances, `SELECT * FROM war_alliance`); err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_alliance"})
	}
	if err := r.db.SelectContext(ctx, &battles, `SELECT * FROM war_battle ORDER BY id ASC`); err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_battle"})
	}

	state, err := model.RowsToState(nations, countries, alliances, battles)
	if err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindCodec, err, nil)
	}
	return state, nil
}

// Save 在一个事务里写完整个快照。
func (r *StateRepo) Save(ctx context.Context, s *entity.WarStateSnap) (err error) {
	if s.Empty() {
		return nil
	}
	if r == nil || r.db == nil {
		return errs.Wrap(OpSave, errs.KindInfra, errors.New("sqlite db is nil"), nil)
	}
	rows, err := model.SnapToRows(s)
	if err != nil {
		return errs.Wrap(OpSave, errs.KindCodec, err, map[string]any{"version": s.Version})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = execEach(ctx, tx, upsertNation, rows.Nations); err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version, "table": "war_nation"})
	}
	if err = execEach(ctx, tx, upsertCountry, rows.Countries); err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version, "table": "war_country"})
	}
	if err = execEach(ctx, tx, upsertAlliance, rows.Alliances); err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version, "table": "war_alliance"})
	}
	if len(s.DeletedAlliances) > 0 {
		query, args, inErr := sqlx.In(`DELETE FROM war_alliance WHERE name IN (?)`, s.DeletedAlliances)
		if inErr != nil {
			err = inErr
			return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version, "table": "war_alliance"})
		}
		if _, err = tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version, "table": "war_alliance"})
		}
	}
	if err = execEach(ctx, tx, insertBattle, rows.Battles); err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version, "table": "war_battle"})
	}
	if err = tx.Commit(); err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"version": s.Version})
	}
	return nil
}

func execEach[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]); err != nil {
			return err
		}
	}
	return nil
}
