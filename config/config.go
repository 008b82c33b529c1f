// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Trail     TrailConfig     `yaml:"trail"`
	Ant       AntConfig       `yaml:"ant"`
	Colony    ColonyConfig    `yaml:"colony"`
	Food      FoodConfig      `yaml:"food"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Castes    []CasteConfig   `yaml:"castes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions and timing.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DT     float64 `yaml:"dt"`   // seconds per simulation tick
	Seed   int64   `yaml:"seed"` // 0 means seed from wall clock
}

// PheromoneConfig holds the spatial field and terrain parameters.
type PheromoneConfig struct {
	CellSize float64 `yaml:"cell_size"` // grid bucket edge length

	// Ground layer: terrain cells whose moisture/temperature/porosity
	// modulate trail decay.
	GroundEnabled  bool    `yaml:"ground_enabled"`
	GroundCellSize float64 `yaml:"ground_cell_size"`
}

// TrailConfig holds the deposit parameters for trails ants lay.
type TrailConfig struct {
	FoodStrength   float64 `yaml:"food_strength"`
	FoodDecay      float64 `yaml:"food_decay"` // strength lost per tick
	FoodRadius     float64 `yaml:"food_radius"`
	SpreadEnabled  bool    `yaml:"spread_enabled"`
	SpreadRadius   float64 `yaml:"spread_radius"`   // parent age radius gate, seconds * velocity scale
	SpreadStrength float64 `yaml:"spread_strength"` // child strength as fraction of parent max
	SpreadDelay    float64 `yaml:"spread_delay"`    // seconds before a deposit spreads
	HomeStrength   float64 `yaml:"home_strength"`
	HomeDecay      float64 `yaml:"home_decay"`
	HomeRadius     float64 `yaml:"home_radius"`
	HomeEvery      int     `yaml:"home_every"` // steps between home deposits while searching
}

// AntConfig holds caste-unscaled agent movement and sensing parameters.
type AntConfig struct {
	MaxVelocity        float64 `yaml:"max_velocity"`
	Acceleration       float64 `yaml:"acceleration"`
	TurnSpeed          float64 `yaml:"turn_speed"` // degrees per step
	DetectionRadius    float64 `yaml:"detection_radius"`
	SenseRadius        float64 `yaml:"sense_radius"`      // trail gradient sampling radius
	HomeSenseRadius    float64 `yaml:"home_sense_radius"` // home trail avoidance radius
	WalkTurnChance  float64 `yaml:"walk_turn_chance"`
	TrailLostChance float64 `yaml:"trail_lost_turn_chance"`
	SearchSlowdown  float64 `yaml:"search_slowdown"` // speed factor while avoiding home trail
	CarrySlowdown   float64 `yaml:"carry_slowdown"`  // speed factor while hauling food
	CarryCapacity   float64 `yaml:"carry_capacity"`  // max food per trip
	InitialHealth   float64 `yaml:"initial_health"`
	MaxLifespan     int64   `yaml:"max_lifespan"` // ticks
}

// ColonyConfig holds nest economy and brood parameters.
type ColonyConfig struct {
	X                float64 `yaml:"x"` // 0 means world center
	Y                float64 `yaml:"y"`
	Radius           float64 `yaml:"radius"`
	MaxPopulation    int     `yaml:"max_population"`
	MaxFoodStorage   float64 `yaml:"max_food_storage"`
	InitialFood      float64 `yaml:"initial_food"`
	InitialAnts      int     `yaml:"initial_ants"`
	ConsumptionRate  float64 `yaml:"consumption_rate"`  // food per ant per tick
	StarvationDamage float64 `yaml:"starvation_damage"` // health lost per starving tick
	XPPerFood        float64 `yaml:"xp_per_food"`
	EggInterval      int64   `yaml:"egg_interval"` // ticks between lays
	EggDuration      int64   `yaml:"egg_duration"`
	PupaDuration     int64   `yaml:"pupa_duration"`
	Health           float64 `yaml:"health"`
	LevelPopBonus    int     `yaml:"level_pop_bonus"`
	LevelStoreBonus  float64 `yaml:"level_store_bonus"`
	LevelHealthBonus float64 `yaml:"level_health_bonus"`
}

// FoodConfig holds food source placement parameters.
type FoodConfig struct {
	Sources int     `yaml:"sources"` // scattered at startup
	Amount  float64 `yaml:"amount"`  // per source
	Radius  float64 `yaml:"radius"`  // pile radius
}

// TelemetryConfig holds stats collection settings.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	WindowTicks int64  `yaml:"window_ticks"` // stats aggregation window
	OutputDir   string `yaml:"output_dir"`
}

// CasteConfig defines one ant caste: movement multipliers over the base
// parameters plus the food cost to spawn an adult directly.
type CasteConfig struct {
	Name            string  `yaml:"name"`
	SpeedFactor     float64 `yaml:"speed_factor"`
	DetectionFactor float64 `yaml:"detection_factor"`
	TurnFactor      float64 `yaml:"turn_factor"`
	SpawnCost       float64 `yaml:"spawn_cost"`
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	CenterX    float64        // colony X after world-center defaulting
	CenterY    float64        // colony Y after world-center defaulting
	CasteIndex map[string]int // name -> index for caste lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// Refresh recomputes derived values after fields were overwritten in place.
func (c *Config) Refresh() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Colony defaults to the world center
	c.Derived.CenterX = c.Colony.X
	if c.Derived.CenterX == 0 {
		c.Derived.CenterX = c.World.Width / 2
	}
	c.Derived.CenterY = c.Colony.Y
	if c.Derived.CenterY == 0 {
		c.Derived.CenterY = c.World.Height / 2
	}

	// Synthesize the default caste roster if none specified
	if len(c.Castes) == 0 {
		c.Castes = []CasteConfig{
			{Name: "worker", SpeedFactor: 1.0, DetectionFactor: 1.0, TurnFactor: 1.0, SpawnCost: 10},
			{Name: "soldier", SpeedFactor: 0.8, DetectionFactor: 1.3, TurnFactor: 0.9, SpawnCost: 15},
			{Name: "scout", SpeedFactor: 1.4, DetectionFactor: 1.5, TurnFactor: 1.3, SpawnCost: 12},
			{Name: "nurse", SpeedFactor: 0.85, DetectionFactor: 0.7, TurnFactor: 1.0, SpawnCost: 8},
		}
	}

	// Apply defaults to castes that don't specify all fields
	for i := range c.Castes {
		caste := &c.Castes[i]
		if caste.SpeedFactor == 0 {
			caste.SpeedFactor = 1.0
		}
		if caste.DetectionFactor == 0 {
			caste.DetectionFactor = 1.0
		}
		if caste.TurnFactor == 0 {
			caste.TurnFactor = 1.0
		}
		if caste.SpawnCost == 0 {
			caste.SpawnCost = 10
		}
	}

	// Build caste index for fast lookup
	c.Derived.CasteIndex = make(map[string]int, len(c.Castes))
	for i, caste := range c.Castes {
		c.Derived.CasteIndex[caste.Name] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
