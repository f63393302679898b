package config

import "time"

// EngineConfig tunes the built-in simulator engine
type EngineConfig struct {
	// TimeScale compresses simulated travel: sim seconds per real second.
	// Zero means instant movement (useful for smoke runs).
	TimeScale float64 `mapstructure:"time_scale" validate:"min=0"`

	// Cargo handling process durations
	LoadTime   time.Duration `mapstructure:"load_time"`
	UnloadTime time.Duration `mapstructure:"unload_time"`
	LandTime   time.Duration `mapstructure:"land_time"`

	// Coalition broadcast throttle
	BroadcastRate  float64 `mapstructure:"broadcast_rate" validate:"min=0"`
	BroadcastBurst int     `mapstructure:"broadcast_burst" validate:"min=0"`
}
