package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
	"WarSim/internal/war/store"
	"WarSim/modules/kit/errx"

	"github.com/stretchr/testify/require"
)

var testCat = catalog.MustLoad("")

type fakeRepo struct {
	mu      sync.Mutex
	state   *entity.WarState
	saved   []*entity.WarStateSnap
	failing int
}

func (r *fakeRepo) Load(ctx context.Context) (*entity.WarState, error) {
	return r.state, nil
}

func (r *fakeRepo) Save(ctx context.Context, s *entity.WarStateSnap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing > 0 {
		r.failing--
		return errors.New("db down")
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *fakeRepo) savedNations() map[entity.Key]entity.Nation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[entity.Key]entity.Nation{}
	for _, s := range r.saved {
		for _, n := range s.Nations {
			out[n.Key] = n
		}
	}
	return out
}

func (r *fakeRepo) savedBattles() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for _, s := range r.saved {
		for _, b := range s.Battles {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

func newStore() *store.Store {
	return store.New(testCat, store.Options{StartingResources: 1000, MaxBattleLog: 100})
}

func setMoney(t *testing.T, st *store.Store, key entity.Key, v int64) {
	t.Helper()
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		tx.Nation(key).Resources[catalog.Money] = v
		return nil
	}))
}

func TestLoad_全量加载不产生增量(t *testing.T) {
	key := entity.Key{Scope: 1, Player: 7}
	n := entity.NewNation(testCat, key, 500, time.Unix(0, 0))
	repo := &fakeRepo{state: &entity.WarState{Nations: []entity.Nation{n}}}
	st := newStore()
	d := NewWarDC(repo, st, Options{})
	defer d.Close(context.Background())

	require.NoError(t, d.Load(context.Background()))
	require.False(t, d.Dirty())
	require.Equal(t, int64(500), st.GetOrCreateNation(key).Resources[catalog.Money])
}

func TestFlushSync_写出增量(t *testing.T) {
	repo := &fakeRepo{}
	st := newStore()
	d := NewWarDC(repo, st, Options{})
	defer d.Close(context.Background())

	key := entity.Key{Scope: 1, Player: 1}
	setMoney(t, st, key, 42)
	require.NoError(t, d.FlushSync(context.Background()))
	require.False(t, d.Dirty())
	require.Equal(t, int64(42), repo.savedNations()[key].Resources[catalog.Money])

	// 没有增量时不写库
	before := len(repo.saved)
	require.NoError(t, d.FlushSync(context.Background()))
	require.Len(t, repo.saved, before)
}

func TestFlushSync_失败后合并重试不丢增量(t *testing.T) {
	repo := &fakeRepo{failing: 1}
	st := newStore()
	d := NewWarDC(repo, st, Options{})
	defer d.Close(context.Background())

	a := entity.Key{Scope: 1, Player: 1}
	b := entity.Key{Scope: 1, Player: 2}
	setMoney(t, st, a, 10)
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		tx.AppendBattle(entity.BattleRecord{ID: 1, Scope: 1, Attacker: 1, Defender: 2})
		return nil
	}))

	err := d.FlushSync(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, errx.ErrPersistence))
	require.True(t, d.HasPending())
	// 内存态不受影响
	require.Equal(t, int64(10), st.GetOrCreateNation(a).Resources[catalog.Money])

	setMoney(t, st, a, 11)
	setMoney(t, st, b, 20)
	require.NoError(t, d.FlushSync(context.Background()))
	require.False(t, d.HasPending())

	saved := repo.savedNations()
	require.Equal(t, int64(11), saved[a].Resources[catalog.Money])
	require.Equal(t, int64(20), saved[b].Resources[catalog.Money])
	require.Equal(t, []int64{1}, repo.savedBattles())
}

func TestFlush_后台写库并在关闭时排空(t *testing.T) {
	repo := &fakeRepo{}
	st := newStore()
	d := NewWarDC(repo, st, Options{RetryDelay: time.Millisecond})

	for i := int64(1); i <= 20; i++ {
		setMoney(t, st, entity.Key{Scope: 1, Player: i}, i)
		d.Flush(context.Background())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	saved := repo.savedNations()
	require.Len(t, saved, 20)
	for i := int64(1); i <= 20; i++ {
		require.Equal(t, i, saved[entity.Key{Scope: 1, Player: i}].Resources[catalog.Money])
	}
}

func TestFlush_后台重试成功(t *testing.T) {
	repo := &fakeRepo{failing: 2}
	st := newStore()
	d := NewWarDC(repo, st, Options{RetryDelay: time.Millisecond, MaxRetries: 5})

	key := entity.Key{Scope: 1, Player: 1}
	setMoney(t, st, key, 99)
	d.Flush(context.Background())

	require.Eventually(t, func() bool {
		_, ok := repo.savedNations()[key]
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, d.Close(context.Background()))
}

func TestClose_写库一直失败返回错误(t *testing.T) {
	repo := &fakeRepo{failing: 1000}
	st := newStore()
	d := NewWarDC(repo, st, Options{RetryDelay: time.Millisecond, MaxRetries: 2})

	setMoney(t, st, entity.Key{Scope: 1, Player: 1}, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := d.Close(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, errx.ErrPersistence))
}
