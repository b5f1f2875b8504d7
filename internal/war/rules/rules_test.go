package rules

import (
	"testing"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"
	"WarSim/modules/kit/errx"

	"github.com/stretchr/testify/require"
)

var testCat = catalog.MustLoad("")

// seqRand 按顺序返回预设值，用完后一直返回最后一个。
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return v
}

func newNation() entity.Nation {
	return entity.NewNation(testCat, entity.Key{Scope: 1, Player: 1}, 1000, time.Unix(1_800_000_000, 0))
}

func TestTotalPower_军校2级十个步兵为60(t *testing.T) {
	n := newNation()
	n.Capital[catalog.MilitaryAcademy] = 2
	n.Military["soldier"] = 10
	require.Equal(t, int64(60), TotalPower(testCat, n))
}

func TestTotalPower_非负且随兵力单调递增(t *testing.T) {
	n := newNation()
	require.Equal(t, int64(0), TotalPower(testCat, n))

	for _, u := range testCat.Units() {
		if u.Power == 0 {
			continue
		}
		before := TotalPower(testCat, n)
		n.Military[u.Kind]++
		after := TotalPower(testCat, n)
		require.Greater(t, after, before, u.Kind)
	}
}

func TestTotalPower_忽略未知兵种和负数量(t *testing.T) {
	n := newNation()
	n.Military["ghost"] = 100
	n.Military["soldier"] = -5
	require.Equal(t, int64(0), TotalPower(testCat, n))
}

func TestComputeLevel_上限与幂等(t *testing.T) {
	n := newNation()
	// 10 种资源各 1000 = 10000 → +1
	require.Equal(t, 2, ComputeLevel(testCat, n, 50))

	n.Experience = 5_000
	n.Military["soldier"] = 400 // 2000 战力
	require.Equal(t, 1+2+1+5, ComputeLevel(testCat, n, 50))
	require.Equal(t, ComputeLevel(testCat, n, 50), ComputeLevel(testCat, n, 50))

	n.Experience = 10_000_000
	require.Equal(t, 50, ComputeLevel(testCat, n, 50))
}

func TestAccrue_不足一个周期不产出(t *testing.T) {
	n := newNation()
	a := Accrue(testCat, n, 4*time.Minute+59*time.Second, 0)
	require.False(t, a.Due())
	require.Empty(t, a.Delta)
	require.Zero(t, a.Experience)
}

func TestAccrue_12分钟恰好两个周期(t *testing.T) {
	n := newNation()
	n.Capital[catalog.Government] = 2
	n.Capital[catalog.Economy] = 1

	a := Accrue(testCat, n, 12*time.Minute, 5*time.Minute)
	require.Equal(t, int64(2), a.Cycles)
	// money 每周期 = 10 + 5*2 + 3*1 = 23
	require.Equal(t, int64(46), a.Delta[catalog.Money])
	require.Equal(t, int64(4), a.Experience)
	// uranium 每周期 = 1 + 2/2 = 2
	require.Equal(t, int64(4), a.Delta[catalog.Uranium])
	require.Len(t, a.Delta, 10)
}

func TestCanAffordUnit_各类拒绝(t *testing.T) {
	n := newNation()

	_, _, err := CanAffordUnit(testCat, n, "soldier", 0)
	require.ErrorIs(t, err, errx.ErrValidation)

	_, _, err = CanAffordUnit(testCat, n, "dragon", 1)
	require.ErrorIs(t, err, errx.ErrNotFound)

	_, _, err = CanAffordUnit(testCat, n, "abrams", 1)
	require.ErrorIs(t, err, errx.ErrPrecondition)
	require.Equal(t, string(ReasonLevelTooLow), errx.ReasonOf(err))

	_, _, err = CanAffordUnit(testCat, n, "soldier", 101)
	require.ErrorIs(t, err, errx.ErrPrecondition)
	require.Equal(t, string(ReasonInsufficientFunds), errx.ReasonOf(err))

	u, total, err := CanAffordUnit(testCat, n, "soldier", 100)
	require.NoError(t, err)
	require.Equal(t, int64(1000), total)
	require.Equal(t, int64(10), u.Cost)
}

func TestCanAffordUnit_乘法溢出按非法数量处理(t *testing.T) {
	n := newNation()
	_, _, err := CanAffordUnit(testCat, n, "soldier", 1<<62)
	require.ErrorIs(t, err, errx.ErrValidation)
}

func TestCanUpgrade_费用与上限(t *testing.T) {
	n := newNation()
	n.Resources[catalog.Money] = 100_000

	def, cost, err := CanUpgrade(testCat, n, catalog.Government)
	require.NoError(t, err)
	require.Equal(t, int64(1000), cost)
	require.Equal(t, int64(3000), UpgradeCost(def, 2))
	require.Equal(t, int64(10), UpgradeExperience(cost))

	n.Capital[catalog.SpaceProgram] = 5
	_, _, err = CanUpgrade(testCat, n, catalog.SpaceProgram)
	require.Equal(t, string(ReasonUpgradeMaxLevel), errx.ReasonOf(err))

	_, _, err = CanUpgrade(testCat, n, "castle")
	require.ErrorIs(t, err, errx.ErrNotFound)

	n.Resources[catalog.Money] = 10
	_, _, err = CanUpgrade(testCat, n, catalog.NuclearProgram)
	require.Equal(t, string(ReasonInsufficientFunds), errx.ReasonOf(err))
}

func TestCanAttack(t *testing.T) {
	a, d := newNation(), newNation()
	ac, dc := entity.NewCountry(a.Key), entity.NewCountry(d.Key)

	require.NoError(t, CanAttack(a, d, ac, dc))

	dc.Level = 3
	err := CanAttack(a, d, ac, dc)
	require.Equal(t, string(ReasonTargetTooStrong), errx.ReasonOf(err))

	dc.Level = 2
	a.Alliance, d.Alliance = "north", "north"
	err = CanAttack(a, d, ac, dc)
	require.Equal(t, string(ReasonCannotAttackAlly), errx.ReasonOf(err))

	a.Alliance, d.Alliance = "", ""
	require.NoError(t, CanAttack(a, d, ac, dc))
}

func TestResolve_500对200系数1时伤害比0点3(t *testing.T) {
	// 0.5 → 系数 1.0；最后的 0.99 让攻占判定落空
	r := &seqRand{vals: []float64{0.5, 0.5, 0.99}}
	out, err := Resolve(CombatInput{
		AttackerPower: 500, DefenderPower: 200,
		DefenderMoney: 1000, DefenderOil: 333, DefenderTerritory: 1000,
	}, r, 100)
	require.NoError(t, err)
	require.True(t, out.AttackerWon)
	require.InDelta(t, 500.0, out.AttackStrength, 1e-9)
	require.InDelta(t, 200.0, out.DefenseStrength, 1e-9)
	require.InDelta(t, 0.3, out.DamageRatio, 1e-9)
	require.Equal(t, int64(300), out.StolenMoney)
	require.Equal(t, int64(99), out.StolenOil)
	require.False(t, out.Conquered)
	require.Equal(t, int64(100), out.AttackerXP)
	require.Equal(t, int64(50), out.DefenderXP)
}

func TestResolve_攻占判定(t *testing.T) {
	r := &seqRand{vals: []float64{0.5, 0.5, 0.05}}
	out, err := Resolve(CombatInput{AttackerPower: 500, DefenderPower: 200, DefenderTerritory: 1000}, r, 100)
	require.NoError(t, err)
	require.True(t, out.Conquered)
	require.Equal(t, int64(1000), out.TerritoryGained)
}

func TestResolve_防守方胜利只罚进攻方金钱(t *testing.T) {
	r := &seqRand{vals: []float64{0.5, 0.5}}
	out, err := Resolve(CombatInput{AttackerPower: 100, DefenderPower: 400, AttackerMoney: 1000, DefenderMoney: 1000}, r, 100)
	require.NoError(t, err)
	require.False(t, out.AttackerWon)
	// min(0.2, 300/400*0.3=0.225) = 0.2
	require.InDelta(t, 0.2, out.DamageRatio, 1e-9)
	require.Equal(t, int64(200), out.LostMoney)
	require.Zero(t, out.StolenMoney)
	require.Equal(t, int64(25), out.AttackerXP)
	require.Equal(t, int64(75), out.DefenderXP)
}

func TestResolve_战力不足(t *testing.T) {
	_, err := Resolve(CombatInput{AttackerPower: 99}, &seqRand{vals: []float64{0.5}}, 100)
	require.ErrorIs(t, err, errx.ErrPrecondition)
	require.Equal(t, string(ReasonInsufficientPower), errx.ReasonOf(err))
}

func TestResolve_掠夺不超过三成且不为负(t *testing.T) {
	r := NewRand(42)
	for i := 0; i < 2000; i++ {
		money := int64(i * 37)
		out, err := Resolve(CombatInput{
			AttackerPower: 100 + int64(i), DefenderPower: int64(i % 300),
			AttackerMoney: money, DefenderMoney: money, DefenderOil: money,
		}, r, 100)
		require.NoError(t, err)
		if !out.AttackerWon {
			require.LessOrEqual(t, out.LostMoney, money)
			continue
		}
		require.LessOrEqual(t, float64(out.StolenMoney), float64(money)*0.3)
		require.GreaterOrEqual(t, money-out.StolenMoney, int64(0))
		require.GreaterOrEqual(t, money-out.StolenOil, int64(0))
	}
}

func TestNewRand_同种子可复现(t *testing.T) {
	a, b := NewRand(7), NewRand(7)
	for i := 0; i < 10; i++ {
		v := a.Float64()
		require.Equal(t, v, b.Float64())
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSpy(t *testing.T) {
	require.InDelta(t, 0.4, SpyChance(1), 1e-9)
	require.InDelta(t, 0.8, SpyChance(5), 1e-9)
	require.InDelta(t, 0.8, SpyChance(10), 1e-9)
	require.Equal(t, int64(10), SpyIntelGain(true))
	require.Equal(t, int64(1), SpyIntelGain(false))

	n := newNation()
	n.Military["soldier"] = 1000 // 5000
	n.Military["abrams"] = 20    // 9000
	n.Military["jeep"] = 10      // 200
	n.Military["marine"] = 1     // 12
	n.Military["sniper"] = 1     // 18
	n.Military["medic"] = 1      // 10
	top := TopUnits(testCat, n, 5)
	require.Len(t, top, 5)
	require.Equal(t, catalog.UnitKind("abrams"), top[0].Kind)
	require.Equal(t, catalog.UnitKind("soldier"), top[1].Kind)
	require.Equal(t, catalog.UnitKind("marine"), top[4].Kind)
}
