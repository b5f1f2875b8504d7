package catalog

type (
	UnitKind     string
	ResourceKind string
	UpgradeKind  string
	Category     string
)

const (
	Money        ResourceKind = "money"
	Oil          ResourceKind = "oil"
	Uranium      ResourceKind = "uranium"
	SocialCredit ResourceKind = "social_credit"
	Technology   ResourceKind = "technology"
	Population   ResourceKind = "population"
	Steel        ResourceKind = "steel"
	Aluminum     ResourceKind = "aluminum"
	Titanium     ResourceKind = "titanium"
	RareEarth    ResourceKind = "rare_earth"
)

const (
	Government      UpgradeKind = "government"
	MilitaryAcademy UpgradeKind = "military_academy"
	ResearchLab     UpgradeKind = "research_lab"
	Infrastructure  UpgradeKind = "infrastructure"
	Intelligence    UpgradeKind = "intelligence"
	Economy         UpgradeKind = "economy"
	Defense         UpgradeKind = "defense"
	Diplomacy       UpgradeKind = "diplomacy"
	SpaceProgram    UpgradeKind = "space_program"
	NuclearProgram  UpgradeKind = "nuclear_program"
)

// RequiredResources 与 RequiredUpgrades 是引擎规则直接引用的 kind，
// 覆盖数据文件时必须全部保留。
var RequiredResources = []ResourceKind{
	Money, Oil, Uranium, SocialCredit, Technology,
	Population, Steel, Aluminum, Titanium, RareEarth,
}

var RequiredUpgrades = []UpgradeKind{
	Government, MilitaryAcademy, ResearchLab, Infrastructure, Intelligence,
	Economy, Defense, Diplomacy, SpaceProgram, NuclearProgram,
}

// Categories 是兵种分类，顺序即商店展示顺序。
var Categories = []Category{
	"infantry",
	"light_vehicle",
	"tank",
	"artillery",
	"anti_air",
	"fighter",
	"bomber",
	"helicopter",
	"drone",
	"naval",
	"missile",
	"special",
	"defense",
}

type Unit struct {
	Kind     UnitKind `toml:"kind" json:"kind"`
	Name     string   `toml:"name" json:"name"`
	Cost     int64    `toml:"cost" json:"cost"`
	Power    int64    `toml:"power" json:"power"`
	Category Category `toml:"category" json:"category"`
	LevelReq int      `toml:"level_req" json:"level_req"`
}

// Term 是产量公式中的一项：建筑等级 * Mul / Div。
type Term struct {
	Upgrade UpgradeKind `toml:"upgrade" json:"upgrade"`
	Mul     int64       `toml:"mul" json:"mul"`
	Div     int64       `toml:"div" json:"div"`
}

type Income struct {
	Base  int64  `toml:"base" json:"base"`
	Terms []Term `toml:"terms" json:"terms"`
}

type Resource struct {
	Kind       ResourceKind `toml:"kind" json:"kind"`
	Name       string       `toml:"name" json:"name"`
	BaseIncome int64        `toml:"base_income" json:"base_income"`
	Income     Income       `toml:"income" json:"income"`
}

type Upgrade struct {
	Kind           UpgradeKind `toml:"kind" json:"kind"`
	Name           string      `toml:"name" json:"name"`
	MaxLevel       int         `toml:"max_level" json:"max_level"`
	CostMultiplier int64       `toml:"cost_multiplier" json:"cost_multiplier"`
	Benefits       []string    `toml:"benefits" json:"benefits"`
}
