package config

// MissionConfig describes the scenario the daemon runs: which warehouses
// exist, where they sit, and what stock they start with
type MissionConfig struct {
	Warehouses []WarehouseSpec `mapstructure:"warehouses" validate:"dive"`
}

// WarehouseSpec declares one warehouse and its initial stock
type WarehouseSpec struct {
	Name      string  `mapstructure:"name" validate:"required"`
	Coalition string  `mapstructure:"coalition" validate:"required,oneof=red blue neutral"`
	X         float64 `mapstructure:"x"`
	Z         float64 `mapstructure:"z"`
	MarkerID  int     `mapstructure:"marker_id"`

	Assets []AssetSpec `mapstructure:"assets" validate:"dive"`
}

// AssetSpec is one initial stock line: a template and how many of it
type AssetSpec struct {
	Template string `mapstructure:"template" validate:"required"`
	Count    int    `mapstructure:"count" validate:"min=1"`
}
