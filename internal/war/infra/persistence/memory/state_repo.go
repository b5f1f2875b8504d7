package memory

import (
	"context"
	"sort"
	"sync"

	"WarSim/internal/war/entity"
)

// StateRepo 把快照保存在进程内，供测试与 storage.driver=memory 使用。
type StateRepo struct {
	mu        sync.Mutex
	nations   map[entity.Key]entity.Nation
	countries map[entity.Key]entity.Country
	alliances map[string]entity.Alliance
	battles   map[int64]entity.BattleRecord
	saves     int
}

func NewStateRepo() *StateRepo {
	return &StateRepo{
		nations:   make(map[entity.Key]entity.Nation),
		countries: make(map[entity.Key]entity.Country),
		alliances: make(map[string]entity.Alliance),
		battles:   make(map[int64]entity.BattleRecord),
	}
}

func (r *StateRepo) Load(ctx context.Context) (*entity.WarState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := &entity.WarState{}
	for _, n := range r.nations {
		state.Nations = append(state.Nations, n.Clone())
	}
	for _, c := range r.countries {
		state.Countries = append(state.Countries, c.Clone())
	}
	for _, a := range r.alliances {
		state.Alliances = append(state.Alliances, a.Clone())
	}
	for _, b := range r.battles {
		state.Battles = append(state.Battles, b)
	}
	sort.Slice(state.Battles, func(i, j int) bool { return state.Battles[i].ID < state.Battles[j].ID })
	return state, nil
}

func (r *StateRepo) Save(ctx context.Context, s *entity.WarStateSnap) error {
	if s.Empty() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range s.Nations {
		r.nations[n.Key] = n.Clone()
	}
	for _, c := range s.Countries {
		r.countries[c.Key] = c.Clone()
	}
	for _, a := range s.Alliances {
		r.alliances[a.Name] = a.Clone()
	}
	for _, name := range s.DeletedAlliances {
		delete(r.alliances, name)
	}
	for _, b := range s.Battles {
		r.battles[b.ID] = b
	}
	r.saves++
	return nil
}

// Saves 返回成功写入的次数。
func (r *StateRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
