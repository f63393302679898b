package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "airlift"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "airlift"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "airlift.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Engine defaults
	if cfg.Engine.TimeScale == 0 {
		cfg.Engine.TimeScale = 60
	}
	if cfg.Engine.LoadTime == 0 {
		cfg.Engine.LoadTime = 2 * time.Second
	}
	if cfg.Engine.UnloadTime == 0 {
		cfg.Engine.UnloadTime = 2 * time.Second
	}
	if cfg.Engine.LandTime == 0 {
		cfg.Engine.LandTime = time.Second
	}
	if cfg.Engine.BroadcastRate == 0 {
		cfg.Engine.BroadcastRate = 2
	}
	if cfg.Engine.BroadcastBurst == 0 {
		cfg.Engine.BroadcastBurst = 10
	}

	// Warehouse defaults
	if cfg.Logistic.Warehouse.SpawnZoneRadius == 0 {
		cfg.Logistic.Warehouse.SpawnZoneRadius = 200
	}
	if cfg.Logistic.Warehouse.StatusDelay == 0 {
		cfg.Logistic.Warehouse.StatusDelay = 5 * time.Second
	}
	if cfg.Logistic.Warehouse.StatusInterval == 0 {
		cfg.Logistic.Warehouse.StatusInterval = 30 * time.Second
	}

	// Dispatch defaults
	setModeDefaults(&cfg.Logistic.Dispatch.Airplane, 500, 500)
	setModeDefaults(&cfg.Logistic.Dispatch.Helicopter, 500, 90)
	setModeDefaults(&cfg.Logistic.Dispatch.APC, 250, 25)

	// Tasking defaults
	if cfg.Logistic.Tasking.LoadRadius == 0 {
		cfg.Logistic.Tasking.LoadRadius = 500
	}
	if cfg.Logistic.Tasking.DeployRadius == 0 {
		cfg.Logistic.Tasking.DeployRadius = 500
	}
}

func setModeDefaults(mode *ModeConfig, loadRadius, nearRadius float64) {
	if mode.LoadRadius == 0 {
		mode.LoadRadius = loadRadius
	}
	if mode.NearRadius == 0 {
		mode.NearRadius = nearRadius
	}
	if mode.DeployDelay == 0 {
		mode.DeployDelay = 10 * time.Second
	}
}
