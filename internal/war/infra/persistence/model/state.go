package model

import "WarSim/internal/war/entity"

// SnapRows 是快照转换后的关系型行集合。
type SnapRows struct {
	Nations   []NationRow
	Countries []CountryRow
	Alliances []AllianceRow
	Battles   []BattleRow
}

func SnapToRows(s *entity.WarStateSnap) (SnapRows, error) {
	var out SnapRows
	for _, n := range s.Nations {
		row, err := NationToRow(n)
		if err != nil {
			return SnapRows{}, err
		}
		out.Nations = append(out.Nations, row)
	}
	for _, c := range s.Countries {
		out.Countries = append(out.Countries, CountryToRow(c))
	}
	for _, a := range s.Alliances {
		row, err := AllianceToRow(a)
		if err != nil {
			return SnapRows{}, err
		}
		out.Alliances = append(out.Alliances, row)
	}
	for _, b := range s.Battles {
		out.Battles = append(out.Battles, BattleToRow(b))
	}
	return out, nil
}

// RowsToState 还原全量状态；battles 需按 id 升序传入。
func RowsToState(nations []NationRow, countries []CountryRow, alliances []AllianceRow, battles []BattleRow) (*entity.WarState, error) {
	state := &entity.WarState{
		Nations:   make([]entity.Nation, 0, len(nations)),
		Countries: make([]entity.Country, 0, len(countries)),
		Alliances: make([]entity.Alliance, 0, len(alliances)),
		Battles:   make([]entity.BattleRecord, 0, len(battles)),
	}
	for _, r := range nations {
		n, err := RowToNation(r)
		if err != nil {
			return nil, err
		}
		state.Nations = append(state.Nations, n)
	}
	for _, r := range countries {
		c, err := RowToCountry(r)
		if err != nil {
			return nil, err
		}
		state.Countries = append(state.Countries, c)
	}
	for _, r := range alliances {
		a, err := RowToAlliance(r)
		if err != nil {
			return nil, err
		}
		state.Alliances = append(state.Alliances, a)
	}
	for _, r := range battles {
		state.Battles = append(state.Battles, RowToBattle(r))
	}
	return state, nil
}
