package memory

import (
	"context"
	"testing"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"

	"github.com/stretchr/testify/require"
)

func TestStateRepo_保存后加载并隔离修改(t *testing.T) {
	repo := NewStateRepo()
	ctx := context.Background()
	cat := catalog.MustLoad("")
	now := time.Unix(1_800_000_000, 0)
	a := entity.Key{Scope: 7, Player: 1}

	n := entity.NewNation(cat, a, 1000, now)
	require.NoError(t, repo.Save(ctx, &entity.WarStateSnap{
		Version:   1,
		Nations:   []entity.Nation{n},
		Alliances: []entity.Alliance{{Name: "east", Leader: a, Members: []entity.Member{{Key: a, JoinedAt: now}}}},
		Battles:   []entity.BattleRecord{{ID: 9, Scope: 7}, {ID: 3, Scope: 7}},
	}))
	// 调用方之后的修改不影响已保存的数据
	n.Military["soldier"] = 99

	state, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Nations, 1)
	require.Zero(t, state.Nations[0].Military["soldier"])
	require.Len(t, state.Alliances, 1)
	require.Equal(t, []int64{3, 9}, []int64{state.Battles[0].ID, state.Battles[1].ID})
	require.Equal(t, 1, repo.Saves())

	require.NoError(t, repo.Save(ctx, &entity.WarStateSnap{Version: 2, DeletedAlliances: []string{"east"}}))
	state, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, state.Alliances)
	require.Equal(t, 2, repo.Saves())
}

func TestStateRepo_空快照不计数(t *testing.T) {
	repo := NewStateRepo()
	require.NoError(t, repo.Save(context.Background(), nil))
	require.NoError(t, repo.Save(context.Background(), &entity.WarStateSnap{Version: 1}))
	require.Zero(t, repo.Saves())
}
