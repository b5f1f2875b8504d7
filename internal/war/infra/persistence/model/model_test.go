package model

import (
	"testing"
	"time"

	"WarSim/internal/shared/gameconfig/catalog"
	"WarSim/internal/war/entity"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestNationRow_地图字段与时间往返(t *testing.T) {
	cat := catalog.MustLoad("")
	now := time.UnixMilli(1_800_000_000_123)
	n := entity.NewNation(cat, entity.Key{Scope: 9, Player: 3}, 1000, now)
	n.Military["soldier"] = 12
	n.Capital[catalog.Intelligence] = 2
	n.Alliance = "north"

	row, err := NationToRow(n)
	require.NoError(t, err)
	back, err := RowToNation(row)
	require.NoError(t, err)
	require.Equal(t, n.Key, back.Key)
	require.Equal(t, int64(12), back.Military["soldier"])
	require.Equal(t, 2, back.Capital[catalog.Intelligence])
	require.Equal(t, int64(1000), back.Resources[catalog.Money])
	require.True(t, back.LastActive.Equal(now))
	require.Equal(t, "north", back.Alliance)
}

func TestRowToNation_损坏的JSON报错(t *testing.T) {
	_, err := RowToNation(NationRow{Scope: 1, Player: 1, Resources: "{"})
	require.Error(t, err)
}

func TestCountryRow_攻占信息可为空(t *testing.T) {
	c := entity.NewCountry(entity.Key{Scope: 1, Player: 2})
	row := CountryToRow(c)
	require.Empty(t, row.ConqueredBy)
	back, err := RowToCountry(row)
	require.NoError(t, err)
	require.Nil(t, back.ConqueredBy)
	require.Nil(t, back.ConquestTime)

	by := entity.Key{Scope: 1, Player: 5}
	at := time.UnixMilli(1_700_000_000_000)
	c.ConqueredBy, c.ConquestTime = &by, &at
	back, err = RowToCountry(CountryToRow(c))
	require.NoError(t, err)
	require.Equal(t, by, *back.ConqueredBy)
	require.True(t, back.ConquestTime.Equal(at))
}

func TestAllianceRow_成员顺序保留(t *testing.T) {
	t0 := time.UnixMilli(1_700_000_000_000)
	a := entity.Alliance{
		Name:   "north",
		Leader: entity.Key{Scope: 1, Player: 2},
		Members: []entity.Member{
			{Key: entity.Key{Scope: 1, Player: 2}, JoinedAt: t0},
			{Key: entity.Key{Scope: 1, Player: 1}, JoinedAt: t0.Add(time.Second)},
		},
		CreatedAt:  t0,
		TotalPower: 70,
	}
	row, err := AllianceToRow(a)
	require.NoError(t, err)
	back, err := RowToAlliance(row)
	require.NoError(t, err)
	require.Equal(t, a.MemberKeys(), back.MemberKeys())
	require.Equal(t, a.Leader, back.Leader)
	require.Equal(t, int64(70), back.TotalPower)
}

func TestNationDoc_键类型转换(t *testing.T) {
	n := entity.Nation{
		Key:       entity.Key{Scope: 1, Player: 1},
		Resources: map[catalog.ResourceKind]int64{catalog.Oil: 3},
		Military:  map[catalog.UnitKind]int64{"jeep": 2},
		Capital:   map[catalog.UpgradeKind]int{catalog.Economy: 1},
	}
	doc := NationToDoc(n)
	require.Equal(t, "1:1", doc.ID)
	require.Equal(t, int64(3), doc.Resources["oil"])
	back := DocToNation(doc)
	require.Equal(t, int64(2), back.Military["jeep"])
	require.Equal(t, 1, back.Capital[catalog.Economy])
}

func TestTimestamp_毫秒对齐后行与文档都无损(t *testing.T) {
	cat := catalog.MustLoad("")
	raw := time.Date(2027, 1, 15, 12, 0, 0, 999_999_999, time.UTC)
	now := entity.Timestamp(raw)
	require.Equal(t, 999_000_000, now.Nanosecond())

	n := entity.NewNation(cat, entity.Key{Scope: 9, Player: 4}, 1000, now)
	row, err := NationToRow(n)
	require.NoError(t, err)
	back, err := RowToNation(row)
	require.NoError(t, err)
	require.True(t, back.LastActive.Equal(n.LastActive), "row: %v != %v", back.LastActive, n.LastActive)

	data, err := bson.Marshal(NationToDoc(n))
	require.NoError(t, err)
	var doc NationDoc
	require.NoError(t, bson.Unmarshal(data, &doc))
	fromDoc := DocToNation(doc)
	require.True(t, fromDoc.LastActive.Equal(n.LastActive), "doc: %v != %v", fromDoc.LastActive, n.LastActive)
	require.True(t, fromDoc.CreatedAt.Equal(n.CreatedAt))
}
