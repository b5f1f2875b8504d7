package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_内置表满足约束(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(c.Units()), 120)
	require.Len(t, c.Resources(), 10)
	require.Len(t, c.Upgrades(), 10)

	perCat := map[Category]int{}
	for _, u := range c.Units() {
		perCat[u.Category]++
	}
	require.Len(t, perCat, len(Categories))

	soldier, ok := c.Unit("soldier")
	require.True(t, ok)
	require.Equal(t, Unit{Kind: "soldier", Name: "Soldier", Cost: 10, Power: 5, Category: "infantry", LevelReq: 1}, soldier)

	// 轨道炮保留特种武器定义，炮兵版本改名
	railgun, _ := c.Unit("railgun")
	require.Equal(t, Category("special"), railgun.Category)
	rail, ok := c.Unit("rail_artillery")
	require.True(t, ok)
	require.Equal(t, Category("artillery"), rail.Category)

	space, ok := c.Upgrade(SpaceProgram)
	require.True(t, ok)
	require.Equal(t, 5, space.MaxLevel)
	require.Equal(t, int64(5000), space.CostMultiplier)
}

func TestIncome_按公式逐项整除(t *testing.T) {
	c := MustLoad("")

	require.Equal(t, int64(10), c.Income(Money, nil))
	capital := map[UpgradeKind]int{Government: 3, Economy: 2, Infrastructure: 5, ResearchLab: 4}
	require.Equal(t, int64(10+15+6), c.Income(Money, capital))
	require.Equal(t, int64(5+6+5), c.Income(Oil, capital))
	require.Equal(t, int64(1+1), c.Income(Uranium, capital))
	require.Equal(t, int64(2+1), c.Income(SocialCredit, capital))
	require.Equal(t, int64(1+8), c.Income(Technology, capital))
	require.Equal(t, int64(20+30), c.Income(Population, capital))
	require.Equal(t, int64(3+10), c.Income(Steel, capital))
	require.Equal(t, int64(2+5), c.Income(Aluminum, capital))
	require.Equal(t, int64(1+2), c.Income(Titanium, capital))
	require.Equal(t, int64(1+1), c.Income(RareEarth, capital))
	require.Equal(t, int64(0), c.Income("gold", capital))
}

func TestUnitsByCategory_按单价升序(t *testing.T) {
	c := MustLoad("")
	tanks := c.UnitsByCategory("tank")
	require.NotEmpty(t, tanks)
	for i := 1; i < len(tanks); i++ {
		require.LessOrEqual(t, tanks[i-1].Cost, tanks[i].Cost)
	}
}

func TestLoad_目录覆盖单个文件(t *testing.T) {
	dir := t.TempDir()
	raw, err := builtin.ReadFile("data/" + upgradesFile)
	require.NoError(t, err)
	patched := strings.Replace(string(raw), "cost_multiplier = 1000\nbenefits = [\"income_bonus\"", "cost_multiplier = 1234\nbenefits = [\"income_bonus\"", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, upgradesFile), []byte(patched), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	gov, _ := c.Upgrade(Government)
	require.Equal(t, int64(1234), gov.CostMultiplier)
	require.GreaterOrEqual(t, len(c.Units()), 120)
}

func TestLoad_校验失败(t *testing.T) {
	cases := map[string]string{
		unitsFile:     "units = [ { kind = \"soldier\", name = \"S\", cost = 10, power = 5, category = \"infantry\", level_req = 1 } ]\n",
		resourcesFile: "[[resources]]\nkind = \"money\"\nname = \"Money\"\nincome = { base = 1, terms = [ { upgrade = \"castle\", mul = 1 } ] }\n",
		upgradesFile:  "[[upgrades]]\nkind = \"government\"\nname = \"G\"\nmax_level = 10\ncost_multiplier = 1000\nbogus = 1\n",
	}
	for name, body := range cases {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
		_, err := Load(dir)
		require.Error(t, err, name)
	}
}

func TestValidate_重复与非法分类(t *testing.T) {
	c := MustLoad("")
	units := c.Units()
	resources := c.Resources()
	upgrades := c.Upgrades()

	dup := append(append([]Unit{}, units...), units[0])
	require.ErrorContains(t, validate(dup, resources, upgrades), "duplicate")

	bad := append([]Unit{}, units...)
	bad[0].Category = "cavalry"
	require.ErrorContains(t, validate(bad, resources, upgrades), "unknown category")

	free := append([]Unit{}, units...)
	free[0].Cost = 0
	require.ErrorContains(t, validate(free, resources, upgrades), "cost")
}

func TestLoad_覆盖文件缺少规则依赖的kind(t *testing.T) {
	cases := []struct {
		file, from, to, want string
	}{
		{resourcesFile, `kind = "money"`, `kind = "cash"`, `missing required kind "money"`},
		{resourcesFile, `kind = "uranium"`, `kind = "plutonium"`, `missing required kind "uranium"`},
		{upgradesFile, `kind = "intelligence"`, `kind = "spy_agency"`, `missing required kind "intelligence"`},
		{upgradesFile, `kind = "military_academy"`, `kind = "war_college"`, `missing required kind "military_academy"`},
	}
	for _, tc := range cases {
		t.Run(tc.to, func(t *testing.T) {
			raw, err := builtin.ReadFile("data/" + tc.file)
			require.NoError(t, err)
			require.Contains(t, string(raw), tc.from)
			dir := t.TempDir()
			patched := strings.Replace(string(raw), tc.from, tc.to, 1)
			require.NoError(t, os.WriteFile(filepath.Join(dir, tc.file), []byte(patched), 0o644))

			_, err = Load(dir)
			require.ErrorContains(t, err, tc.want)
		})
	}
}
