package logistics

import (
	"context"
	"fmt"

	"github.com/skyquarter/airlift/internal/application/common"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// AddAssetHandler handles AddAssetCommand
type AddAssetHandler struct {
	registry *WarehouseRegistry
}

// NewAddAssetHandler creates the handler
func NewAddAssetHandler(registry *WarehouseRegistry) *AddAssetHandler {
	return &AddAssetHandler{registry: registry}
}

// Handle stocks the named warehouse. An unresolvable template is absorbed by
// the warehouse itself (logged, not escalated), so the only error here is an
// unknown warehouse.
func (h *AddAssetHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(AddAssetCommand)
	if !ok {
		return nil, fmt.Errorf("expected AddAssetCommand, got %T", request)
	}

	w, err := h.registry.Get(cmd.Warehouse)
	if err != nil {
		return nil, err
	}

	w.AddAsset(cmd.TemplateName, cmd.Count)
	return AddAssetResult{TotalStock: w.StockCount()}, nil
}

// RequestAssetsHandler handles RequestAssetsCommand
type RequestAssetsHandler struct {
	registry *WarehouseRegistry
}

// NewRequestAssetsHandler creates the handler
func NewRequestAssetsHandler(registry *WarehouseRegistry) *RequestAssetsHandler {
	return &RequestAssetsHandler{registry: registry}
}

// Handle submits the request and waits for the machine to process it
func (h *RequestAssetsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(RequestAssetsCommand)
	if !ok {
		return nil, fmt.Errorf("expected RequestAssetsCommand, got %T", request)
	}

	w, err := h.registry.Get(cmd.Warehouse)
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Info("asset request submitted",
		"warehouse", cmd.Warehouse, "origin", cmd.Origin, "quantity", cmd.Quantity)

	w.Request(warehouse.Request{
		Origin:      cmd.Origin,
		Destination: cmd.Destination,
		Descriptor:  cmd.Descriptor,
		Value:       cmd.Value,
		Quantity:    cmd.Quantity,
		Transport:   cmd.Transport,
	})
	return RequestAssetsResult{TotalStock: w.StockCount()}, nil
}

// GetStockInfoHandler handles GetStockInfoQuery
type GetStockInfoHandler struct {
	registry *WarehouseRegistry
}

// NewGetStockInfoHandler creates the handler
func NewGetStockInfoHandler(registry *WarehouseRegistry) *GetStockInfoHandler {
	return &GetStockInfoHandler{registry: registry}
}

// Handle returns the warehouse's full census
func (h *GetStockInfoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(GetStockInfoQuery)
	if !ok {
		return nil, fmt.Errorf("expected GetStockInfoQuery, got %T", request)
	}

	w, err := h.registry.Get(query.Warehouse)
	if err != nil {
		return nil, err
	}

	return GetStockInfoResult{Census: w.StockInfo(), Total: w.StockCount()}, nil
}

// RegisterHandlers wires every logistics handler into the mediator
func RegisterHandlers(m common.Mediator, registry *WarehouseRegistry) error {
	if err := common.RegisterHandler[AddAssetCommand](m, NewAddAssetHandler(registry)); err != nil {
		return err
	}
	if err := common.RegisterHandler[RequestAssetsCommand](m, NewRequestAssetsHandler(registry)); err != nil {
		return err
	}
	return common.RegisterHandler[GetStockInfoQuery](m, NewGetStockInfoHandler(registry))
}
