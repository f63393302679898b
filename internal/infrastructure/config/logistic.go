package config

import "time"

// LogisticConfig tunes warehouse, dispatch and tasking behavior
type LogisticConfig struct {
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Tasking   TaskingConfig   `mapstructure:"tasking"`
}

// WarehouseConfig holds the timings shared by all warehouses
type WarehouseConfig struct {
	// SpawnZoneRadius is the radius of the roadside spawn zone in meters
	SpawnZoneRadius float64 `mapstructure:"spawn_zone_radius" validate:"min=0"`

	// StatusDelay is the wait before the first status broadcast
	StatusDelay time.Duration `mapstructure:"status_delay"`

	// StatusInterval is the period between status broadcasts
	StatusInterval time.Duration `mapstructure:"status_interval"`
}

// DispatchConfig holds per-transport-mode delivery parameters
type DispatchConfig struct {
	Airplane   ModeConfig `mapstructure:"airplane"`
	Helicopter ModeConfig `mapstructure:"helicopter"`
	APC        ModeConfig `mapstructure:"apc"`
}

// ModeConfig tunes one delivery mode
type ModeConfig struct {
	// LoadRadius is how close the carrier must get to the cargo to load it
	LoadRadius float64 `mapstructure:"load_radius" validate:"min=0"`

	// NearRadius is the arrival tolerance at the destination
	NearRadius float64 `mapstructure:"near_radius" validate:"min=0"`

	// DeployDelay is the hold time between loading and departure
	DeployDelay time.Duration `mapstructure:"deploy_delay"`
}

// TaskingConfig tunes player cargo-transport tasks
type TaskingConfig struct {
	// LoadRadius is the pickup range in meters
	LoadRadius float64 `mapstructure:"load_radius" validate:"min=0"`

	// DeployRadius is the unload range around a deploy zone center
	DeployRadius float64 `mapstructure:"deploy_radius" validate:"min=0"`
}
