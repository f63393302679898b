package logistics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/application/common"
	"github.com/skyquarter/airlift/internal/application/logistics"
	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
	"github.com/skyquarter/airlift/test/helpers"
)

type fakeCatalog map[string]asset.TemplateInfo

func (c fakeCatalog) Resolve(templateName string) (asset.TemplateInfo, error) {
	info, ok := c[templateName]
	if !ok {
		return asset.TemplateInfo{}, fmt.Errorf("template not in unit database: %s", templateName)
	}
	return info, nil
}

func newLogisticsFixture(t *testing.T) (common.Mediator, *logistics.WarehouseRegistry) {
	t.Helper()

	catalog := fakeCatalog{
		"M939 Truck": {Tags: []string{asset.TagTruck}, Category: asset.CategoryGround, UnitType: "M939"},
	}

	w, err := warehouse.New(
		warehouse.Config{
			Name:           "Batumi",
			Coalition:      "blue",
			Coordinate:     shared.NewGroundCoordinate(1000, 2000),
			StatusDelay:    time.Hour,
			StatusInterval: time.Hour,
		},
		warehouse.Deps{
			Catalog:    catalog,
			Spawner:    helpers.NewMockSpawner(),
			Router:     helpers.NewMockRouter(),
			Messenger:  helpers.NewMockMessenger(),
			Dispatcher: helpers.NewMockDispatcher(),
		},
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { w.Stop() })

	registry := logistics.NewWarehouseRegistry()
	require.NoError(t, registry.Add(w))

	mediator := common.NewMediator()
	require.NoError(t, logistics.RegisterHandlers(mediator, registry))

	return mediator, registry
}

func TestAddAssetHandler(t *testing.T) {
	mediator, _ := newLogisticsFixture(t)

	result, err := mediator.Send(context.Background(), logistics.AddAssetCommand{
		Warehouse:    "Batumi",
		TemplateName: "M939 Truck",
		Count:        3,
	})

	require.NoError(t, err)
	assert.Equal(t, logistics.AddAssetResult{TotalStock: 3}, result)
}

func TestAddAssetHandler_UnknownWarehouse(t *testing.T) {
	mediator, _ := newLogisticsFixture(t)

	_, err := mediator.Send(context.Background(), logistics.AddAssetCommand{
		Warehouse:    "Sukhumi",
		TemplateName: "M939 Truck",
		Count:        1,
	})

	assert.Error(t, err)
}

func TestRequestAssetsHandler_GrantReducesStock(t *testing.T) {
	mediator, _ := newLogisticsFixture(t)
	_, err := mediator.Send(context.Background(), logistics.AddAssetCommand{
		Warehouse: "Batumi", TemplateName: "M939 Truck", Count: 3,
	})
	require.NoError(t, err)

	dest, err := shared.NewZone("frontline", shared.NewGroundCoordinate(50000, 0), 500)
	require.NoError(t, err)

	result, err := mediator.Send(context.Background(), logistics.RequestAssetsCommand{
		Warehouse:   "Batumi",
		Origin:      "Kobuleti",
		Destination: dest,
		Descriptor:  asset.DescriptorAttribute,
		Value:       asset.AttributeTruck,
		Quantity:    2,
		Transport:   warehouse.TransportSelfPropelled,
	})

	require.NoError(t, err)
	assert.Equal(t, logistics.RequestAssetsResult{TotalStock: 1}, result)
}

func TestGetStockInfoHandler(t *testing.T) {
	mediator, _ := newLogisticsFixture(t)
	_, err := mediator.Send(context.Background(), logistics.AddAssetCommand{
		Warehouse: "Batumi", TemplateName: "M939 Truck", Count: 2,
	})
	require.NoError(t, err)

	result, err := mediator.Send(context.Background(), logistics.GetStockInfoQuery{Warehouse: "Batumi"})
	require.NoError(t, err)

	info, ok := result.(logistics.GetStockInfoResult)
	require.True(t, ok)
	assert.Equal(t, 2, info.Total)
	assert.Equal(t, 2, info.Census[asset.AttributeTruck])
	assert.Contains(t, info.Census, asset.AttributeAWACS)
}

func TestWarehouseRegistry_RejectsDuplicates(t *testing.T) {
	_, registry := newLogisticsFixture(t)

	w, err := registry.Get("Batumi")
	require.NoError(t, err)

	assert.Error(t, registry.Add(w))
	assert.Len(t, registry.All(), 1)
}
