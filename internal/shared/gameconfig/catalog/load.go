package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	unitsFile     = "units.toml"
	resourcesFile = "resources.toml"
	upgradesFile  = "upgrades.toml"

	minUnits      = 120
	wantResources = 10
	wantUpgrades  = 10
)

//go:embed data/*.toml
var builtin embed.FS

type unitsDoc struct {
	Units []Unit `toml:"units"`
}

type resourcesDoc struct {
	Resources []Resource `toml:"resources"`
}

type upgradesDoc struct {
	Upgrades []Upgrade `toml:"upgrades"`
}

// Load 加载静态表。dir 为空时使用内置数据；
// dir 非空时目录里存在的文件覆盖对应的内置文件，缺失的仍用内置。
func Load(dir string) (*Catalog, error) {
	var ud unitsDoc
	if err := decode(dir, unitsFile, &ud); err != nil {
		return nil, err
	}
	var rd resourcesDoc
	if err := decode(dir, resourcesFile, &rd); err != nil {
		return nil, err
	}
	var gd upgradesDoc
	if err := decode(dir, upgradesFile, &gd); err != nil {
		return nil, err
	}
	if err := validate(ud.Units, rd.Resources, gd.Upgrades); err != nil {
		return nil, err
	}
	return newCatalog(ud.Units, rd.Resources, gd.Upgrades), nil
}

// MustLoad 供进程启动使用，表有问题直接 panic。
func MustLoad(dir string) *Catalog {
	c, err := Load(dir)
	if err != nil {
		panic(fmt.Errorf("load catalog failed: %w", err))
	}
	return c
}

func decode(dir, name string, out any) error {
	raw, err := readFile(dir, name)
	if err != nil {
		return err
	}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func readFile(dir, name string) ([]byte, error) {
	if dir != "" {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	raw, err := builtin.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read builtin %s: %w", name, err)
	}
	return raw, nil
}

func validate(units []Unit, resources []Resource, upgrades []Upgrade) error {
	known := make(map[Category]struct{}, len(Categories))
	for _, c := range Categories {
		known[c] = struct{}{}
	}

	if len(units) < minUnits {
		return fmt.Errorf("units: want at least %d, got %d", minUnits, len(units))
	}
	seenUnit := make(map[UnitKind]struct{}, len(units))
	for _, u := range units {
		if u.Kind == "" {
			return errors.New("units: empty kind")
		}
		if _, dup := seenUnit[u.Kind]; dup {
			return fmt.Errorf("units: duplicate kind %q", u.Kind)
		}
		seenUnit[u.Kind] = struct{}{}
		if _, ok := known[u.Category]; !ok {
			return fmt.Errorf("units: %q has unknown category %q", u.Kind, u.Category)
		}
		if u.Cost <= 0 {
			return fmt.Errorf("units: %q cost must be positive", u.Kind)
		}
		if u.Power < 0 {
			return fmt.Errorf("units: %q power must not be negative", u.Kind)
		}
		if u.LevelReq < 1 {
			return fmt.Errorf("units: %q level_req must be >= 1", u.Kind)
		}
	}

	if len(upgrades) != wantUpgrades {
		return fmt.Errorf("upgrades: want %d, got %d", wantUpgrades, len(upgrades))
	}
	seenUpgrade := make(map[UpgradeKind]struct{}, len(upgrades))
	for _, u := range upgrades {
		if _, dup := seenUpgrade[u.Kind]; dup {
			return fmt.Errorf("upgrades: duplicate kind %q", u.Kind)
		}
		seenUpgrade[u.Kind] = struct{}{}
		if u.MaxLevel < 1 {
			return fmt.Errorf("upgrades: %q max_level must be >= 1", u.Kind)
		}
		if u.CostMultiplier <= 0 {
			return fmt.Errorf("upgrades: %q cost_multiplier must be positive", u.Kind)
		}
	}

	for _, kind := range RequiredUpgrades {
		if _, ok := seenUpgrade[kind]; !ok {
			return fmt.Errorf("upgrades: missing required kind %q", kind)
		}
	}

	if len(resources) != wantResources {
		return fmt.Errorf("resources: want %d, got %d", wantResources, len(resources))
	}
	seenResource := make(map[ResourceKind]struct{}, len(resources))
	for _, r := range resources {
		if _, dup := seenResource[r.Kind]; dup {
			return fmt.Errorf("resources: duplicate kind %q", r.Kind)
		}
		seenResource[r.Kind] = struct{}{}
		for _, t := range r.Income.Terms {
			if _, ok := seenUpgrade[t.Upgrade]; !ok {
				return fmt.Errorf("resources: %q income references unknown upgrade %q", r.Kind, t.Upgrade)
			}
			if t.Div < 0 {
				return fmt.Errorf("resources: %q income div must not be negative", r.Kind)
			}
		}
	}
	for _, kind := range RequiredResources {
		if _, ok := seenResource[kind]; !ok {
			return fmt.Errorf("resources: missing required kind %q", kind)
		}
	}
	return nil
}
