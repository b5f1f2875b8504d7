package rules

import (
	"sync"

	"golang.org/x/exp/rand"
)

// Rand 是注入的随机源；战斗与侦察只通过它取随机数。
type Rand interface {
	// Float64 返回 [0,1) 内的均匀分布随机数。
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand 返回以 seed 初始化、可并发使用的随机源。
func NewRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// uniform 返回 [lo,hi) 内的均匀分布随机数。
func uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
