package asset

// TemplateInfo is what the host engine's unit database knows about a template
type TemplateInfo struct {
	Tags     []string
	Category Category
	UnitType string
}

// TemplateCatalog resolves template names against the engine's unit database.
// Resolution happens once per AddAsset call; the computed attribute is stored
// on the stock item, not re-derived.
type TemplateCatalog interface {
	Resolve(templateName string) (TemplateInfo, error)
}
