package asset

import "fmt"

// Category is the coarse engine category of a unit template
type Category string

const (
	CategoryAir    Category = "AIR"
	CategoryGround Category = "GROUND"
	CategoryShip   Category = "SHIP"
)

// StockItem is one unit of inventory held at a warehouse. Items are owned
// exclusively by the warehouse that created them: ids are assigned at
// insertion, strictly increasing, and never reused within a warehouse's
// lifetime.
type StockItem struct {
	ID           int64
	TemplateName string
	Category     Category
	UnitType     string
	Attribute    Attribute
}

func (s *StockItem) String() string {
	return fmt.Sprintf("StockItem(#%d %s %s)", s.ID, s.TemplateName, s.Attribute)
}

// Descriptor names the StockItem field a request matches against
type Descriptor string

const (
	DescriptorID        Descriptor = "ID"
	DescriptorTemplate  Descriptor = "TEMPLATE"
	DescriptorCategory  Descriptor = "CATEGORY"
	DescriptorUnitType  Descriptor = "UNIT_TYPE"
	DescriptorAttribute Descriptor = "ATTRIBUTE"
)

// Matches reports whether the item's named field equals the given value.
// Matching is exact equality on the one named field; an unknown descriptor
// matches nothing.
func (s *StockItem) Matches(d Descriptor, value any) bool {
	switch d {
	case DescriptorID:
		id, ok := value.(int64)
		return ok && s.ID == id
	case DescriptorTemplate:
		name, ok := value.(string)
		return ok && s.TemplateName == name
	case DescriptorCategory:
		cat, ok := value.(Category)
		return ok && s.Category == cat
	case DescriptorUnitType:
		ut, ok := value.(string)
		return ok && s.UnitType == ut
	case DescriptorAttribute:
		attr, ok := value.(Attribute)
		return ok && s.Attribute == attr
	}
	return false
}
