package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsure_保留已有trace并覆盖span(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-keep")
	ctx = Ensure(ctx, "war.attack")
	if got, _ := TraceIDFrom(ctx); got != "t-keep" {
		t.Fatalf("期望保留已有 trace_id，got=%q", got)
	}
	if got, _ := SpanIDFrom(ctx); got != "war.attack" {
		t.Fatalf("期望 span_id=war.attack，got=%q", got)
	}

	fresh := Ensure(nil, "")
	if got, ok := TraceIDFrom(fresh); !ok || len(got) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id，got=%q ok=%v", got, ok)
	}
}
