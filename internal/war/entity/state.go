package entity

import "time"

// WarState 是持久化层全量加载出的状态，启动时灌入 store。
type WarState struct {
	Nations   []Nation
	Countries []Country
	Alliances []Alliance
	Battles   []BattleRecord
}

// WarStateSnap 是一次增量落库的快照：只含上次快照后变化的记录。
type WarStateSnap struct {
	Version          uint64
	Nations          []Nation
	Countries        []Country
	Alliances        []Alliance
	DeletedAlliances []string
	Battles          []BattleRecord
}

func (s *WarStateSnap) Empty() bool {
	return s == nil || (len(s.Nations) == 0 && len(s.Countries) == 0 && len(s.Alliances) == 0 &&
		len(s.DeletedAlliances) == 0 && len(s.Battles) == 0)
}

// Merge 把较旧的快照 older 合并进 s（s 较新）：同 key 记录以 s 为准，
// 战报按 id 去重追加。写库失败重排时使用，保证增量不丢。
func (s *WarStateSnap) Merge(older *WarStateSnap) {
	if older == nil {
		return
	}
	nationSeen := make(map[Key]struct{}, len(s.Nations))
	for _, n := range s.Nations {
		nationSeen[n.Key] = struct{}{}
	}
	for _, n := range older.Nations {
		if _, ok := nationSeen[n.Key]; !ok {
			s.Nations = append(s.Nations, n)
		}
	}

	countrySeen := make(map[Key]struct{}, len(s.Countries))
	for _, c := range s.Countries {
		countrySeen[c.Key] = struct{}{}
	}
	for _, c := range older.Countries {
		if _, ok := countrySeen[c.Key]; !ok {
			s.Countries = append(s.Countries, c)
		}
	}

	// 联盟：较新快照里出现过（无论写入还是删除）的名字，以较新的为准
	touched := make(map[string]struct{}, len(s.Alliances)+len(s.DeletedAlliances))
	for _, a := range s.Alliances {
		touched[a.Name] = struct{}{}
	}
	for _, name := range s.DeletedAlliances {
		touched[name] = struct{}{}
	}
	for _, a := range older.Alliances {
		if _, ok := touched[a.Name]; !ok {
			s.Alliances = append(s.Alliances, a)
		}
	}
	for _, name := range older.DeletedAlliances {
		if _, ok := touched[name]; !ok {
			s.DeletedAlliances = append(s.DeletedAlliances, name)
		}
	}

	battleSeen := make(map[int64]struct{}, len(s.Battles))
	for _, b := range s.Battles {
		battleSeen[b.ID] = struct{}{}
	}
	merged := make([]BattleRecord, 0, len(older.Battles)+len(s.Battles))
	for _, b := range older.Battles {
		if _, ok := battleSeen[b.ID]; !ok {
			merged = append(merged, b)
		}
	}
	s.Battles = append(merged, s.Battles...)
}

// Timestamp 把时间截到毫秒：BSON datetime 与各表的毫秒列都只有这个精度，
// 写入实体前先截断，重启加载后的时间与内存里完全一致。
func Timestamp(t time.Time) time.Time {
	return t.Truncate(time.Millisecond)
}

// MillisClock 包装时钟，保证引擎产生的时间都是毫秒精度。
func MillisClock(now func() time.Time) func() time.Time {
	if now == nil {
		now = time.Now
	}
	return func() time.Time { return Timestamp(now()) }
}
