package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/shared/transport"
	"WarSim/internal/war/dc"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/infra/persistence/memory"
	"WarSim/internal/war/store"

	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) (*Runtime, *store.Store, *memory.StateRepo) {
	t.Helper()
	st := store.New(catalog.MustLoad(""), store.Options{})
	repo := memory.NewStateRepo()
	d := dc.NewWarDC(repo, st, dc.Options{FlushEvery: time.Hour})
	rt := NewRuntime(d, Options{AskTimeout: time.Second, CloseTimeout: time.Second})
	return rt, st, repo
}

func TestRuntime_同步Flush写入仓库(t *testing.T) {
	rt, st, repo := newRuntime(t)
	defer rt.Shutdown(context.Background())

	st.GetOrCreateNation(entity.Key{Scope: 1, Player: 1})
	require.NoError(t, rt.Flush(context.Background()))
	require.Equal(t, 1, repo.Saves())

	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Nations, 1)
}

func TestRuntime_Shutdown时落库剩余增量(t *testing.T) {
	rt, st, repo := newRuntime(t)
	st.GetOrCreateNation(entity.Key{Scope: 1, Player: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, rt.Shutdown(ctx))

	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Nations, 1)
}

func TestCodeFromError(t *testing.T) {
	require.Equal(t, transport.BizCode(transport.OK), CodeFromError(nil))
	require.Equal(t, transport.BizCode(transport.Unavailable), CodeFromError(&RuntimeError{Code: transport.Unavailable, Message: "x"}))
	require.Equal(t, transport.BizCode(transport.SystemError), CodeFromError(errors.New("boom")))
}
