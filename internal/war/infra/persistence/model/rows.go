package model

// 关系型存储（mysql/gorm、sqlite/sqlx）共用的行结构。
// map 字段按 JSON 文本存；时间统一存 unix 毫秒，0 表示空。

type NationRow struct {
	Scope              int64  `gorm:"column:scope;type:bigint;primaryKey;autoIncrement:false" db:"scope"`
	Player             int64  `gorm:"column:player;type:bigint;primaryKey;autoIncrement:false" db:"player"`
	Level              int    `gorm:"column:level;type:int;not null;default:1" db:"level"`
	Experience         int64  `gorm:"column:experience;type:bigint;not null;default:0" db:"experience"`
	Resources          string `gorm:"column:resources;type:text;comment:资源 JSON" db:"resources"`
	Military           string `gorm:"column:military;type:text;comment:兵力 JSON" db:"military"`
	Capital            string `gorm:"column:capital;type:text;comment:首都建筑等级 JSON" db:"capital"`
	BattlesWon         int64  `gorm:"column:battles_won;type:bigint;not null;default:0" db:"battles_won"`
	BattlesLost        int64  `gorm:"column:battles_lost;type:bigint;not null;default:0" db:"battles_lost"`
	TerritoryConquered int64  `gorm:"column:territory_conquered;type:bigint;not null;default:0" db:"territory_conquered"`
	Alliance           string `gorm:"column:alliance;type:varchar(100);index;not null;default:''" db:"alliance"`
	LastActive         int64  `gorm:"column:last_active;type:bigint;not null;default:0" db:"last_active"`
	Intelligence       int64  `gorm:"column:intelligence;type:bigint;not null;default:0" db:"intelligence"`
	CreatedAt          int64  `gorm:"column:created_at;type:bigint;not null;default:0" db:"created_at"`
}

func (*NationRow) TableName() string { return "war_nation" }

type CountryRow struct {
	Scope           int64   `gorm:"column:scope;type:bigint;primaryKey;autoIncrement:false" db:"scope"`
	Player          int64   `gorm:"column:player;type:bigint;primaryKey;autoIncrement:false" db:"player"`
	Name            string  `gorm:"column:name;type:varchar(100)" db:"name"`
	Level           int     `gorm:"column:level;type:int;not null;default:1" db:"level"`
	Population      int64   `gorm:"column:population;type:bigint;not null;default:0" db:"population"`
	Territory       int64   `gorm:"column:territory;type:bigint;not null;default:0" db:"territory"`
	DefenseLevel    int     `gorm:"column:defense_level;type:int;not null;default:1" db:"defense_level"`
	Fortifications  int     `gorm:"column:fortifications;type:int;not null;default:0" db:"fortifications"`
	RebellionChance float64 `gorm:"column:rebellion_chance;type:double;not null;default:0" db:"rebellion_chance"`
	ConqueredBy     string  `gorm:"column:conquered_by;type:varchar(64);not null;default:'';comment:scope:player" db:"conquered_by"`
	ConquestTime    int64   `gorm:"column:conquest_time;type:bigint;not null;default:0" db:"conquest_time"`
}

func (*CountryRow) TableName() string { return "war_country" }

type AllianceRow struct {
	Name         string `gorm:"column:name;type:varchar(100);primaryKey" db:"name"`
	LeaderScope  int64  `gorm:"column:leader_scope;type:bigint;not null" db:"leader_scope"`
	LeaderPlayer int64  `gorm:"column:leader_player;type:bigint;not null" db:"leader_player"`
	Members      string `gorm:"column:members;type:text;comment:成员 JSON，按加入顺序" db:"members"`
	CreatedAt    int64  `gorm:"column:created_at;type:bigint;not null;default:0" db:"created_at"`
	TotalPower   int64  `gorm:"column:total_power;type:bigint;not null;default:0" db:"total_power"`
}

func (*AllianceRow) TableName() string { return "war_alliance" }

type BattleRow struct {
	ID              int64   `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false" db:"id"`
	Scope           int64   `gorm:"column:scope;type:bigint;index;not null" db:"scope"`
	Attacker        int64   `gorm:"column:attacker;type:bigint;not null" db:"attacker"`
	Defender        int64   `gorm:"column:defender;type:bigint;not null" db:"defender"`
	AttackerPower   int64   `gorm:"column:attacker_power;type:bigint;not null" db:"attacker_power"`
	DefenderPower   int64   `gorm:"column:defender_power;type:bigint;not null" db:"defender_power"`
	AttackStrength  float64 `gorm:"column:attack_strength;type:double;not null" db:"attack_strength"`
	DefenseStrength float64 `gorm:"column:defense_strength;type:double;not null" db:"defense_strength"`
	AttackerWon     bool    `gorm:"column:attacker_won;not null" db:"attacker_won"`
	DamageRatio     float64 `gorm:"column:damage_ratio;type:double;not null" db:"damage_ratio"`
	StolenMoney     int64   `gorm:"column:stolen_money;type:bigint;not null;default:0" db:"stolen_money"`
	StolenOil       int64   `gorm:"column:stolen_oil;type:bigint;not null;default:0" db:"stolen_oil"`
	LostMoney       int64   `gorm:"column:lost_money;type:bigint;not null;default:0" db:"lost_money"`
	Conquered       bool    `gorm:"column:conquered;not null" db:"conquered"`
	At              int64   `gorm:"column:at;type:bigint;index;not null" db:"at"`
}

func (*BattleRow) TableName() string { return "war_battle" }
