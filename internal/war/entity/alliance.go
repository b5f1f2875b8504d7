package entity

import "time"

type Member struct {
	Key      Key       `json:"key"`
	JoinedAt time.Time `json:"joined_at"`
}

// Alliance 以名称为主键；Members 保持加入顺序，盟主必须是成员之一。
// TotalPower 是成员变动时增量维护的缓存，不会自动重算。
type Alliance struct {
	Name       string    `json:"name"`
	Leader     Key       `json:"leader"`
	Members    []Member  `json:"members"`
	CreatedAt  time.Time `json:"created_at"`
	TotalPower int64     `json:"total_power"`
}

func (a Alliance) Clone() Alliance {
	out := a
	out.Members = append([]Member(nil), a.Members...)
	return out
}

func (a Alliance) HasMember(k Key) bool {
	return a.indexOf(k) >= 0
}

func (a Alliance) indexOf(k Key) int {
	for i, m := range a.Members {
		if m.Key == k {
			return i
		}
	}
	return -1
}

// RemoveMember 移除成员；盟主离开且仍有成员时，由最早加入的成员接任。
// 返回是否真的移除了。
func (a *Alliance) RemoveMember(k Key) bool {
	i := a.indexOf(k)
	if i < 0 {
		return false
	}
	a.Members = append(a.Members[:i:i], a.Members[i+1:]...)
	if a.Leader == k && len(a.Members) > 0 {
		a.Leader = a.Members[0].Key
	}
	return true
}

func (a Alliance) MemberKeys() []Key {
	out := make([]Key, 0, len(a.Members))
	for _, m := range a.Members {
		out = append(out, m.Key)
	}
	return out
}
