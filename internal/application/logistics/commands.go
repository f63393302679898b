package logistics

import (
	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// AddAssetCommand stocks a warehouse with count instances of a template
type AddAssetCommand struct {
	Warehouse    string
	TemplateName string
	Count        int
}

// AddAssetResult reports the stock level after the addition
type AddAssetResult struct {
	TotalStock int
}

// RequestAssetsCommand submits an asset request against a warehouse
type RequestAssetsCommand struct {
	Warehouse   string
	Origin      string
	Destination shared.Zone
	Descriptor  asset.Descriptor
	Value       any
	Quantity    int
	Transport   warehouse.TransportType
}

// RequestAssetsResult reports the stock level after the request was
// processed. A denied request leaves the level unchanged; the denial itself
// is only observable through the coalition broadcast.
type RequestAssetsResult struct {
	TotalStock int
}

// GetStockInfoQuery asks for a warehouse's full attribute census
type GetStockInfoQuery struct {
	Warehouse string
}

// GetStockInfoResult carries the census, every attribute present
type GetStockInfoResult struct {
	Census map[asset.Attribute]int
	Total  int
}
