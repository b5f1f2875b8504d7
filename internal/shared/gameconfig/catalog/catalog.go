package catalog

import "sort"

// Catalog 是只读的静态表，加载后整个进程生命周期不变，可以并发读。
type Catalog struct {
	units     []Unit
	resources []Resource
	upgrades  []Upgrade

	unitIdx     map[UnitKind]int
	resourceIdx map[ResourceKind]int
	upgradeIdx  map[UpgradeKind]int
}

func newCatalog(units []Unit, resources []Resource, upgrades []Upgrade) *Catalog {
	c := &Catalog{
		units:       units,
		resources:   resources,
		upgrades:    upgrades,
		unitIdx:     make(map[UnitKind]int, len(units)),
		resourceIdx: make(map[ResourceKind]int, len(resources)),
		upgradeIdx:  make(map[UpgradeKind]int, len(upgrades)),
	}
	for i, u := range units {
		c.unitIdx[u.Kind] = i
	}
	for i, r := range resources {
		c.resourceIdx[r.Kind] = i
	}
	for i, u := range upgrades {
		c.upgradeIdx[u.Kind] = i
	}
	return c
}

func (c *Catalog) Unit(kind UnitKind) (Unit, bool) {
	i, ok := c.unitIdx[kind]
	if !ok {
		return Unit{}, false
	}
	return c.units[i], true
}

// Units 按表内顺序返回全部兵种（副本）。
func (c *Catalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// UnitsByCategory 按分类返回兵种，分类内按单价升序。
func (c *Catalog) UnitsByCategory(cat Category) []Unit {
	var out []Unit
	for _, u := range c.units {
		if u.Category == cat {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

func (c *Catalog) UnitKinds() []UnitKind {
	out := make([]UnitKind, 0, len(c.units))
	for _, u := range c.units {
		out = append(out, u.Kind)
	}
	return out
}

func (c *Catalog) Resource(kind ResourceKind) (Resource, bool) {
	i, ok := c.resourceIdx[kind]
	if !ok {
		return Resource{}, false
	}
	return c.resources[i], true
}

func (c *Catalog) Resources() []Resource {
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

func (c *Catalog) ResourceKinds() []ResourceKind {
	out := make([]ResourceKind, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r.Kind)
	}
	return out
}

func (c *Catalog) Upgrade(kind UpgradeKind) (Upgrade, bool) {
	i, ok := c.upgradeIdx[kind]
	if !ok {
		return Upgrade{}, false
	}
	return c.upgrades[i], true
}

func (c *Catalog) Upgrades() []Upgrade {
	out := make([]Upgrade, len(c.upgrades))
	copy(out, c.upgrades)
	return out
}

func (c *Catalog) UpgradeKinds() []UpgradeKind {
	out := make([]UpgradeKind, 0, len(c.upgrades))
	for _, u := range c.upgrades {
		out = append(out, u.Kind)
	}
	return out
}

// Income 计算单个生产周期内某种资源的产量。未知资源返回 0。
func (c *Catalog) Income(kind ResourceKind, capital map[UpgradeKind]int) int64 {
	r, ok := c.Resource(kind)
	if !ok {
		return 0
	}
	total := r.Income.Base
	for _, t := range r.Income.Terms {
		div := t.Div
		if div <= 0 {
			div = 1
		}
		total += int64(capital[t.Upgrade]) * t.Mul / div
	}
	return total
}
