package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Key 是国家在某个群（scope）内的复合主键。可以直接作为 map key。
type Key struct {
	Scope  int64 `json:"scope,string"`
	Player int64 `json:"player,string"`
}

// String 渲染成 "scope:player"，只用作存储层文档 id。
func (k Key) String() string {
	return strconv.FormatInt(k.Scope, 10) + ":" + strconv.FormatInt(k.Player, 10)
}

func (k Key) IsZero() bool {
	return k.Scope == 0 && k.Player == 0
}

func ParseKey(s string) (Key, error) {
	scope, player, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("invalid key %q", s)
	}
	sv, err := strconv.ParseInt(scope, 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("invalid key scope %q: %w", s, err)
	}
	pv, err := strconv.ParseInt(player, 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("invalid key player %q: %w", s, err)
	}
	return Key{Scope: sv, Player: pv}, nil
}
