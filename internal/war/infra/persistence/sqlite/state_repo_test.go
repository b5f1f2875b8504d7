package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	sqliteinfra "WarSim/internal/shared/infrastructure/sqlite"
	"WarSim/internal/shared/serverconfig"
	"WarSim/internal/war/entity"

	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T) *StateRepo {
	t.Helper()
	db, err := sqliteinfra.Open(serverconfig.SQLiteConfig{Path: filepath.Join(t.TempDir(), "war.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewStateRepo(db)
	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestStateRepo_快照写入后全量加载(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	cat := catalog.MustLoad("")
	now := time.UnixMilli(1_800_000_000_000)

	a := entity.Key{Scope: 1, Player: 1}
	b := entity.Key{Scope: 1, Player: 2}
	na := entity.NewNation(cat, a, 1000, now)
	na.Military["soldier"] = 20
	na.Alliance = "north"
	cb := entity.NewCountry(b)
	cb.ConqueredBy, cb.ConquestTime = &a, &now

	snap := &entity.WarStateSnap{
		Version:   1,
		Nations:   []entity.Nation{na, entity.NewNation(cat, b, 1000, now)},
		Countries: []entity.Country{entity.NewCountry(a), cb},
		Alliances: []entity.Alliance{{
			Name: "north", Leader: a,
			Members:   []entity.Member{{Key: a, JoinedAt: now}},
			CreatedAt: now, TotalPower: 100,
		}},
		Battles: []entity.BattleRecord{
			{ID: 2, Scope: 1, Attacker: 1, Defender: 2, AttackerWon: true, DamageRatio: 0.3, StolenMoney: 300, Conquered: true, At: now},
			{ID: 1, Scope: 1, Attacker: 2, Defender: 1, At: now.Add(-time.Minute)},
		},
	}
	require.NoError(t, repo.Save(ctx, snap))
	// 重试同一个快照是幂等的
	require.NoError(t, repo.Save(ctx, snap))

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Nations, 2)
	require.Len(t, state.Countries, 2)
	require.Len(t, state.Alliances, 1)
	require.Len(t, state.Battles, 2)
	require.Equal(t, int64(1), state.Battles[0].ID)
	require.True(t, state.Battles[1].AttackerWon)
	require.True(t, state.Battles[1].Conquered)

	for _, n := range state.Nations {
		if n.Key == a {
			require.Equal(t, int64(20), n.Military["soldier"])
			require.Equal(t, "north", n.Alliance)
			require.True(t, n.LastActive.Equal(now))
		}
	}
	for _, c := range state.Countries {
		if c.Key == b {
			require.NotNil(t, c.ConqueredBy)
			require.Equal(t, a, *c.ConqueredBy)
		}
	}
}

func TestStateRepo_更新覆盖与删除联盟(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	cat := catalog.MustLoad("")
	now := time.UnixMilli(1_800_000_000_000)
	a := entity.Key{Scope: 1, Player: 1}

	n := entity.NewNation(cat, a, 1000, now)
	alliance := entity.Alliance{Name: "north", Leader: a, Members: []entity.Member{{Key: a, JoinedAt: now}}, CreatedAt: now}
	require.NoError(t, repo.Save(ctx, &entity.WarStateSnap{Version: 1, Nations: []entity.Nation{n}, Alliances: []entity.Alliance{alliance}}))

	n.Resources[catalog.Money] = 5
	require.NoError(t, repo.Save(ctx, &entity.WarStateSnap{
		Version:          2,
		Nations:          []entity.Nation{n},
		DeletedAlliances: []string{"north"},
	}))

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Nations, 1)
	require.Equal(t, int64(5), state.Nations[0].Resources[catalog.Money])
	require.Empty(t, state.Alliances)
}

func TestStateRepo_空快照不开事务(t *testing.T) {
	repo := NewStateRepo(nil)
	require.NoError(t, repo.Save(context.Background(), &entity.WarStateSnap{Version: 1}))
	_, err := repo.Load(context.Background())
	require.Error(t, err)
}
