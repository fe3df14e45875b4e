package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Cache      CacheConfig    `mapstructure:"cache"`
	Security   SecurityConfig `mapstructure:"security"`
	AutoEat    AutoEatConfig  `mapstructure:"autoeat"`
	Lunchboxes []LunchboxItem `mapstructure:"lunchboxes"`
	Items      []ItemConfig   `mapstructure:"items"`
	Sim        SimConfig      `mapstructure:"sim"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
	Lang     string `mapstructure:"lang"` // BCP 47 tag for item descriptions
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr      string `mapstructure:"redis_addr"`
	RedisPassword  string `mapstructure:"redis_password"`
	RedisDB        int    `mapstructure:"redis_db"`
	LocalPubSubBuf int    `mapstructure:"local_pubsub_buf"`
}

type SecurityConfig struct {
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	AllowedIPs     []string `mapstructure:"allowed_ips"` // empty allows all
}

// AutoEatConfig tunes when and how a lunchbox feeds its holder.
type AutoEatConfig struct {
	MinSatiety    float64 `mapstructure:"min_satiety"`
	HoldSeconds   float64 `mapstructure:"hold_seconds"`
	HungerKey     string  `mapstructure:"hunger_key"`
	SaturationKey string  `mapstructure:"saturation_key"`
}

// LunchboxItem is the item configuration of one lunchbox type.
type LunchboxItem struct {
	Code string `mapstructure:"code"`
	// SpoilSpeedMult is optional; nil means 1.0.
	SpoilSpeedMult *float64 `mapstructure:"spoil_speed_mult"`
	SlotKind       string   `mapstructure:"slot_kind"` // food | generic
	QuantitySlots  int      `mapstructure:"quantity_slots"`
	SlotBgColor    string   `mapstructure:"slot_bg_color"`
	StorageFlags   uint32   `mapstructure:"storage_flags"`
}

// SpoilMultiplier returns the configured multiplier or 1.0 when absent.
func (l LunchboxItem) SpoilMultiplier() float64 {
	if l.SpoilSpeedMult == nil {
		return 1.0
	}
	return *l.SpoilSpeedMult
}

// ItemConfig registers an item type with the host.
type ItemConfig struct {
	Code         string  `mapstructure:"code"`
	Name         string  `mapstructure:"name"`
	Class        string  `mapstructure:"class"` // generic | food | cooked_container | meal_container
	Satiety      float64 `mapstructure:"satiety"`
	StorageFlags uint32  `mapstructure:"storage_flags"`
	MaxStack     int     `mapstructure:"max_stack"`
}

// SimConfig drives the reference host used by `lunchbox serve`.
type SimConfig struct {
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	HungerPerTick   float64       `mapstructure:"hunger_per_tick"`
	MaxSaturation   float64       `mapstructure:"max_saturation"`
	PersistInterval time.Duration `mapstructure:"persist_interval"`
	PersistDelay    time.Duration `mapstructure:"persist_delay"` // debounce after a slot changes
	Players         []string      `mapstructure:"players"`
	// Starter fills every freshly created lunchbox, one stack per slot.
	Starter []StarterStack `mapstructure:"starter"`
}

// StarterStack is one stack placed in a new lunchbox. Meal and Servings
// pre-fill pots and bowls.
type StarterStack struct {
	Code     string `mapstructure:"code"`
	Quantity int    `mapstructure:"quantity"`
	Meal     string `mapstructure:"meal"`
	Servings int    `mapstructure:"servings"`
}

// DefaultAutoEat returns the stock auto-eat tuning.
func DefaultAutoEat() AutoEatConfig {
	return AutoEatConfig{
		MinSatiety:    15.0,
		HoldSeconds:   2,
		HungerKey:     "hunger",
		SaturationKey: "currentsaturation",
	}
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	eat := DefaultAutoEat()
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.lang", "en")
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/lunchbox.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("autoeat.min_satiety", eat.MinSatiety)
	v.SetDefault("autoeat.hold_seconds", eat.HoldSeconds)
	v.SetDefault("autoeat.hunger_key", eat.HungerKey)
	v.SetDefault("autoeat.saturation_key", eat.SaturationKey)
	v.SetDefault("sim.tick_interval", "1s")
	v.SetDefault("sim.hunger_per_tick", 25)
	v.SetDefault("sim.max_saturation", 1500)
	v.SetDefault("sim.persist_interval", "30s")
	v.SetDefault("sim.persist_delay", "2s")
	v.SetDefault("sim.players", []string{"Alice"})
}
