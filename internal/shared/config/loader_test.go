package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	Persist struct {
		FlushEvery time.Duration `mapstructure:"flush_every"`
	} `mapstructure:"persist"`
	Tags []string `mapstructure:"tags"`
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return p
}

func TestLoad_解析时长与切片(t *testing.T) {
	p := writeConf(t, "storage:\n  driver: sqlite\npersist:\n  flush_every: 3s\ntags: a,b\n")

	var out sample
	Load(p, &out, nil)

	if out.Storage.Driver != "sqlite" {
		t.Fatalf("unexpected driver: %q", out.Storage.Driver)
	}
	if out.Persist.FlushEvery != 3*time.Second {
		t.Fatalf("unexpected flush_every: %v", out.Persist.FlushEvery)
	}
	if len(out.Tags) != 2 || out.Tags[1] != "b" {
		t.Fatalf("unexpected tags: %v", out.Tags)
	}
}

func TestLoad_环境变量覆盖(t *testing.T) {
	p := writeConf(t, "storage:\n  driver: sqlite\n")
	t.Setenv("WARSIM_STORAGE_DRIVER", "memory")

	var out sample
	Load(p, &out, nil)

	if out.Storage.Driver != "memory" {
		t.Fatalf("env override not applied: %q", out.Storage.Driver)
	}
}

func TestLoad_文件不存在panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	var out sample
	Load(filepath.Join(t.TempDir(), "missing.yml"), &out, nil)
}
