package app

import (
	"context"
	"sort"

	"WarSim/internal/war/entity"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"
)

const defaultLeaderboardLimit = 10

type boardKey struct {
	scope    int64
	revision uint64
	limit    int
}

// Leaderboard 返回 scope 内排行：战力降序，其次等级降序，再按玩家 id 升序。
// 结果按 (scope, store revision, limit) 缓存，任何提交都会让旧缓存自然失效。
func (s *Service) Leaderboard(ctx context.Context, scope int64, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	key := boardKey{scope: scope, revision: s.store.Revision(), limit: limit}
	if v, ok := s.boards.Get(key); ok {
		return append([]LeaderboardEntry(nil), v.([]LeaderboardEntry)...)
	}

	var (
		entries []LeaderboardEntry
		rev     uint64
	)
	s.store.View(func(v *store.View) {
		v.EachNation(scope, func(n *entity.Nation) {
			entries = append(entries, LeaderboardEntry{
				Player:   n.Key.Player,
				Level:    n.Level,
				Power:    rules.TotalPower(s.cat, *n),
				Alliance: n.Alliance,
			})
		})
	})
	rev = s.store.Revision()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Power != b.Power {
			return a.Power > b.Power
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.Player < b.Player
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	// 计算期间有新提交就不缓存，避免把旧结果挂到新 revision 上
	if rev == key.revision {
		s.boards.Add(key, append([]LeaderboardEntry(nil), entries...))
	}
	return entries
}
