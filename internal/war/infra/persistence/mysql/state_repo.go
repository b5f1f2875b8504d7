package mysql

import (
	"context"
	"errors"

	"WarSim/internal/war/entity"
	"WarSim/internal/war/errs"
	"WarSim/internal/war/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OpLoad    = "repo.war.Load"
	OpSave    = "repo.war.Save"
	OpMigrate = "repo.war.Migrate"
)

const battleBatchSize = 200

type StateRepo struct {
	db *gorm.DB
}

func NewStateRepo(db *gorm.DB) *StateRepo {
	return &StateRepo{db: db}
}

func (r *StateRepo) WithTx(tx *gorm.DB) *StateRepo {
	return &StateRepo{db: tx}
}

// Migrate 按行结构建表/补列。
func (r *StateRepo) Migrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errs.Wrap(OpMigrate, errs.KindInfra, errors.New("mysql db is nil"), nil)
	}
	err := r.db.WithContext(ctx).AutoMigrate(
		&model.NationRow{},
		&model.CountryRow{},
		&model.AllianceRow{},
		&model.BattleRow{},
	)
	return errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
}

func (r *StateRepo) Load(ctx context.Context) (*entity.WarState, error) {
	if r == nil || r.db == nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, errors.New("mysql db is nil"), nil)
	}
	db := r.db.WithContext(ctx)

	var nations []model.NationRow
	if err := db.Find(&nations).Error; err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_nation"})
	}
	var countries []model.CountryRow
	if err := db.Find(&countries).Error; err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_country"})
	}
	var alliances []model.AllianceRow
	if err := db.Find(&alliances).Error; err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_alliance"})
	}
	var battles []model.BattleRow
	if err := db.Order("id ASC").Find(&battles).Error; err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"table": "war_battle"})
	}

	state, err := model.RowsToState(nations, countries, alliances, battles)
	if err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindCodec, err, nil)
	}
	return state, nil
}

// Save 在一个事务里写完整个快照：要么全部落库，要么全部回滚等待重试。
func (r *StateRepo) Save(ctx context.Context, s *entity.WarStateSnap) error {
	if s.Empty() {
		return nil
	}
	if r == nil || r.db == nil {
		return errs.Wrap(OpSave, errs.KindInfra, errors.New("mysql db is nil"), nil)
	}
	rows, err := model.SnapToRows(s)
	if err != nil {
		return errs.Wrap(OpSave, errs.KindCodec, err, map[string]any{"version": s.Version})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.WithTx(tx).saveRows(rows, s.DeletedAlliances, s.Version)
	})
}

func (r *StateRepo) saveRows(rows model.SnapRows, deleted []string, version uint64) error {
	meta := func(table string) map[string]any {
		return map[string]any{"version": version, "table": table}
	}
	if len(rows.Nations) > 0 {
		if err := r.db.Save(&rows.Nations).Error; err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, meta("war_nation"))
		}
	}
	if len(rows.Countries) > 0 {
		if err := r.db.Save(&rows.Countries).Error; err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, meta("war_country"))
		}
	}
	if len(rows.Alliances) > 0 {
		if err := r.db.Save(&rows.Alliances).Error; err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, meta("war_alliance"))
		}
	}
	if len(deleted) > 0 {
		if err := r.db.Where("name IN ?", deleted).Delete(&model.AllianceRow{}).Error; err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, meta("war_alliance"))
		}
	}
	if len(rows.Battles) > 0 {
		// 战报只追加；重试时已写入的 id 直接跳过
		err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(&rows.Battles, battleBatchSize).Error
		if err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, meta("war_battle"))
		}
	}
	return nil
}
