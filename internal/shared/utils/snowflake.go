package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// 2026-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1767225600000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// IDGenerator 是战报 id 等全局唯一 id 的来源。
type IDGenerator interface {
	NextID() int64
}

type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() time.Time
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID, now: time.Now}, nil
}

// NodeIDFromEnv 读取 WARSIM_NODE_ID，未设置时返回 1。
func NodeIDFromEnv() (int64, error) {
	raw := strings.TrimSpace(os.Getenv("WARSIM_NODE_ID"))
	if raw == "" {
		return 1, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid WARSIM_NODE_ID: %w", err)
	}
	return id, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	if ts < s.lastTS {
		// 时钟回拨时不回退，保持单调递增。
		ts = s.lastTS
	}

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			ts = s.waitNextMillisecond(s.lastTS)
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

func (s *Snowflake) waitNextMillisecond(lastTS int64) int64 {
	ts := s.now().UnixMilli()
	for ts <= lastTS {
		ts = s.now().UnixMilli()
	}
	return ts
}

// SnowflakeTime 从 id 里还原生成时间（毫秒精度）。
func SnowflakeTime(id int64) time.Time {
	return time.UnixMilli((id >> timeShift) + snowflakeEpochMilli)
}

// SnowflakeNode 从 id 里还原节点号。
func SnowflakeNode(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}
