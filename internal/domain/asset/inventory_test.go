package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/domain/asset"
)

func stockTruck(id int64) *asset.StockItem {
	return &asset.StockItem{
		ID:           id,
		TemplateName: "M939 Truck",
		Category:     asset.CategoryGround,
		UnitType:     "M939",
		Attribute:    asset.AttributeTruck,
	}
}

func TestInventory_FilterPreservesInsertionOrder(t *testing.T) {
	// Arrange
	inv := asset.NewInventory()
	inv.Add(stockTruck(1))
	inv.Add(&asset.StockItem{ID: 2, TemplateName: "UH-1H Huey", Attribute: asset.AttributeTransportHelo})
	inv.Add(stockTruck(3))
	inv.Add(stockTruck(4))

	// Act
	trucks := inv.Filter(asset.DescriptorAttribute, asset.AttributeTruck)

	// Assert
	require.Len(t, trucks, 3)
	assert.Equal(t, int64(1), trucks[0].ID)
	assert.Equal(t, int64(3), trucks[1].ID)
	assert.Equal(t, int64(4), trucks[2].ID)
}

func TestInventory_FilterReturnsFreshSlice(t *testing.T) {
	inv := asset.NewInventory()
	inv.Add(stockTruck(1))
	inv.Add(stockTruck(2))

	first := inv.Filter(asset.DescriptorTemplate, "M939 Truck")
	first[0] = nil

	second := inv.Filter(asset.DescriptorTemplate, "M939 Truck")
	require.Len(t, second, 2)
	assert.NotNil(t, second[0])
}

func TestInventory_FilterByEachDescriptor(t *testing.T) {
	inv := asset.NewInventory()
	inv.Add(stockTruck(7))

	assert.Len(t, inv.Filter(asset.DescriptorID, int64(7)), 1)
	assert.Len(t, inv.Filter(asset.DescriptorTemplate, "M939 Truck"), 1)
	assert.Len(t, inv.Filter(asset.DescriptorCategory, asset.CategoryGround), 1)
	assert.Len(t, inv.Filter(asset.DescriptorUnitType, "M939"), 1)
	assert.Len(t, inv.Filter(asset.DescriptorAttribute, asset.AttributeTruck), 1)

	// Mismatched value types match nothing
	assert.Empty(t, inv.Filter(asset.DescriptorID, 7))
	assert.Empty(t, inv.Filter(asset.DescriptorCategory, "GROUND"))
}

func TestInventory_DeleteIsIdempotent(t *testing.T) {
	inv := asset.NewInventory()
	inv.Add(stockTruck(1))
	inv.Add(stockTruck(2))

	assert.True(t, inv.Delete(1))
	assert.Equal(t, 1, inv.Len())

	// Second delete of the same id leaves the inventory untouched
	assert.False(t, inv.Delete(1))
	assert.Equal(t, 1, inv.Len())
}

func TestInventory_CensusIncludesZeroCounts(t *testing.T) {
	inv := asset.NewInventory()
	inv.Add(stockTruck(1))
	inv.Add(stockTruck(2))

	census := inv.Census()

	assert.Len(t, census, len(asset.Attributes()))
	assert.Equal(t, 2, census[asset.AttributeTruck])
	count, present := census[asset.AttributeAWACS]
	assert.True(t, present)
	assert.Equal(t, 0, count)
}
