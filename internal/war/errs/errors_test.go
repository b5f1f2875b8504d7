package errs

import (
	"errors"
	"fmt"
	"testing"

	"WarSim/modules/kit/errx"
	"WarSim/modules/kit/logx"
)

func TestWrap_保留根因与分类(t *testing.T) {
	root := errors.New("connection refused")
	err := Wrap("repo.war.Save", KindInfra, root, map[string]any{"version": 3})
	if !errors.Is(err, root) {
		t.Fatalf("cause lost: %v", err)
	}
	if err.Error() != "repo.war.Save: connection refused" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if KindOf(fmt.Errorf("outer: %w", err)) != KindInfra {
		t.Fatalf("kind not found through wrap chain")
	}
	if KindOf(root) != KindUnknown {
		t.Fatalf("expected unknown kind for foreign error")
	}
	if Wrap("op", KindInfra, nil, nil) != nil {
		t.Fatalf("nil cause should stay nil")
	}
}

func TestWrap_系统日志展开op与meta(t *testing.T) {
	err := errx.ErrPersistence.WithCause(Wrap("repo.war.Save", KindDependency, errors.New("no primary"), map[string]any{"coll": "alliance"}))

	meta := logx.BuildErrorLog(err)
	if meta.Op != "repo.war.Save" {
		t.Fatalf("unexpected op: %q", meta.Op)
	}
	if meta.Data["coll"] != "alliance" || meta.Data["infra_kind"] != "dependency" {
		t.Fatalf("unexpected meta: %v", meta.Data)
	}
}
