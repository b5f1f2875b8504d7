package serverconfig

import "time"

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Persist    PersistConfig    `yaml:"persist" mapstructure:"persist"`
}

const (
	DriverMemory  = "memory"
	DriverMongoDB = "mongodb"
	DriverMySQL   = "mysql"
	DriverSQLite  = "sqlite"
)

type StorageConfig struct {
	Driver  string        `yaml:"driver" mapstructure:"driver"` // memory/mongodb/mysql/sqlite
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	SQLite  SQLiteConfig  `yaml:"sqlite" mapstructure:"sqlite"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// GameConfig 是规则常量，默认值与线上规则一致，一般不需要改。
type GameConfig struct {
	CatalogDir         string        `yaml:"catalog_dir" mapstructure:"catalog_dir"`
	ProductionInterval time.Duration `yaml:"production_interval" mapstructure:"production_interval"`
	MinAttackPower     int64         `yaml:"min_attack_power" mapstructure:"min_attack_power"`
	MaxLevel           int           `yaml:"max_level" mapstructure:"max_level"`
	MaxBattleLog       int           `yaml:"max_battle_log" mapstructure:"max_battle_log"`
	StartingResources  int64         `yaml:"starting_resources" mapstructure:"starting_resources"`
	RNGSeed            uint64        `yaml:"rng_seed" mapstructure:"rng_seed"` // 0 表示按启动时间取种子
	LeaderboardCache   int           `yaml:"leaderboard_cache" mapstructure:"leaderboard_cache"`
}

type PersistConfig struct {
	FlushEvery   time.Duration `yaml:"flush_every" mapstructure:"flush_every"`
	CloseTimeout time.Duration `yaml:"close_timeout" mapstructure:"close_timeout"`
}

// ApplyDefaults 回填未配置的字段。
func (c *Config) ApplyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8088
	}
	if c.Game.ProductionInterval <= 0 {
		c.Game.ProductionInterval = 5 * time.Minute
	}
	if c.Game.MinAttackPower <= 0 {
		c.Game.MinAttackPower = 100
	}
	if c.Game.MaxLevel <= 0 {
		c.Game.MaxLevel = 50
	}
	if c.Game.MaxBattleLog <= 0 {
		c.Game.MaxBattleLog = 10000
	}
	if c.Game.StartingResources <= 0 {
		c.Game.StartingResources = 1000
	}
	if c.Game.LeaderboardCache <= 0 {
		c.Game.LeaderboardCache = 256
	}
	if c.Persist.FlushEvery <= 0 {
		c.Persist.FlushEvery = 3 * time.Second
	}
	if c.Persist.CloseTimeout <= 0 {
		c.Persist.CloseTimeout = 5 * time.Second
	}
}
