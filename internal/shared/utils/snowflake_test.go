package utils

import (
	"testing"
	"time"
)

func TestSnowflake_单调递增且可还原节点与时间(t *testing.T) {
	gen, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}
	fixed := time.UnixMilli(1767225600000 + 12345)
	gen.now = func() time.Time { return fixed }

	prev := gen.NextID()
	for i := 0; i < 100; i++ {
		id := gen.NextID()
		if id <= prev {
			t.Fatalf("id not increasing: prev=%d id=%d", prev, id)
		}
		prev = id
	}
	if SnowflakeNode(prev) != 7 {
		t.Fatalf("unexpected node: %d", SnowflakeNode(prev))
	}
	if !SnowflakeTime(prev).Equal(fixed) {
		t.Fatalf("unexpected time: %v", SnowflakeTime(prev))
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	gen, _ := NewSnowflake(1)
	now := time.UnixMilli(1767225600000 + 1000)
	gen.now = func() time.Time { return now }
	first := gen.NextID()

	now = now.Add(-time.Second)
	if second := gen.NextID(); second <= first {
		t.Fatalf("id went backwards: first=%d second=%d", first, second)
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(1024); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := NewSnowflake(-1); err == nil {
		t.Fatalf("expected out of range error")
	}
}
