package simulator

import (
	"fmt"
	"sync"

	"github.com/skyquarter/airlift/internal/domain/asset"
)

// StaticCatalog is an in-memory unit database mapping template names to
// their capability tags. Missions register their templates up front; the
// warehouse resolves against this on every AddAsset.
type StaticCatalog struct {
	mu        sync.RWMutex
	templates map[string]asset.TemplateInfo
}

// NewStaticCatalog creates a catalog with the given templates
func NewStaticCatalog(templates map[string]asset.TemplateInfo) *StaticCatalog {
	if templates == nil {
		templates = make(map[string]asset.TemplateInfo)
	}
	return &StaticCatalog{templates: templates}
}

// DefaultCatalog returns a catalog stocked with a representative template
// per generalized attribute, enough to run the demo mission
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(map[string]asset.TemplateInfo{
		"C-130 Hercules": {
			Tags:     []string{asset.TagTransport, asset.TagPlane},
			Category: asset.CategoryAir,
			UnitType: "C-130",
		},
		"UH-1H Huey": {
			Tags:     []string{asset.TagTransport, asset.TagHelicopter},
			Category: asset.CategoryAir,
			UnitType: "UH-1H",
		},
		"BTR-80": {
			Tags:     []string{asset.TagAPC},
			Category: asset.CategoryGround,
			UnitType: "BTR-80",
		},
		"F-16C Viper": {
			Tags:     []string{asset.TagFighter},
			Category: asset.CategoryAir,
			UnitType: "F-16C",
		},
		"KC-135 Stratotanker": {
			Tags:     []string{asset.TagTanker},
			Category: asset.CategoryAir,
			UnitType: "KC-135",
		},
		"M-109 Paladin": {
			Tags:     []string{asset.TagArtillery},
			Category: asset.CategoryGround,
			UnitType: "M-109",
		},
		"AH-64 Apache": {
			Tags:     []string{asset.TagAttackHelicopter},
			Category: asset.CategoryAir,
			UnitType: "AH-64",
		},
		"Rifle Squad": {
			Tags:     []string{asset.TagInfantry},
			Category: asset.CategoryGround,
			UnitType: "Soldier M4",
		},
		"M1A2 Abrams": {
			Tags:     []string{asset.TagTank},
			Category: asset.CategoryGround,
			UnitType: "M1A2",
		},
		"M939 Truck": {
			Tags:     []string{asset.TagTruck},
			Category: asset.CategoryGround,
			UnitType: "M939",
		},
	})
}

// Register adds or replaces a template definition
func (c *StaticCatalog) Register(name string, info asset.TemplateInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[name] = info
}

// Resolve implements asset.TemplateCatalog
func (c *StaticCatalog) Resolve(templateName string) (asset.TemplateInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.templates[templateName]
	if !ok {
		return asset.TemplateInfo{}, fmt.Errorf("template not in unit database: %s", templateName)
	}
	return info, nil
}
