package asset

// Attribute is the generalized role category derived from a unit template's
// native capability tags. It is the coarse currency of the warehouse: requests
// match stock by attribute, and transport capacity is an attribute check.
type Attribute string

const (
	AttributeTransportPlane   Attribute = "TRANSPORT_PLANE"
	AttributeTransportHelo    Attribute = "TRANSPORT_HELO"
	AttributeTransportAPC     Attribute = "TRANSPORT_APC"
	AttributeFighter          Attribute = "FIGHTER"
	AttributeTanker           Attribute = "TANKER"
	AttributeAWACS            Attribute = "AWACS"
	AttributeArtillery        Attribute = "ARTILLERY"
	AttributeAttackHelicopter Attribute = "ATTACK_HELICOPTER"
	AttributeInfantry         Attribute = "INFANTRY"
	AttributeBomber           Attribute = "BOMBER"
	AttributeTank             Attribute = "TANK"
	AttributeTruck            Attribute = "TRUCK"
	AttributeShip             Attribute = "SHIP"
	AttributeOther            Attribute = "OTHER"
)

// Attributes returns every attribute in classification priority order,
// with Other last. Census reporting iterates this so zero counts show up.
func Attributes() []Attribute {
	return []Attribute{
		AttributeTransportPlane,
		AttributeTransportHelo,
		AttributeTransportAPC,
		AttributeFighter,
		AttributeTanker,
		AttributeAWACS,
		AttributeArtillery,
		AttributeInfantry,
		AttributeAttackHelicopter,
		AttributeBomber,
		AttributeTank,
		AttributeTruck,
		AttributeShip,
		AttributeOther,
	}
}

// Capability tags as reported by the host engine's unit database
const (
	TagTransport        = "Transports"
	TagPlane            = "Planes"
	TagHelicopter       = "Helicopters"
	TagAPC              = "Infantry carriers"
	TagFighter          = "Fighters"
	TagTanker           = "Tankers"
	TagAWACS            = "AWACS"
	TagArtillery        = "Artillery"
	TagAttackHelicopter = "Attack helicopters"
	TagInfantry         = "Infantry"
	TagBomber           = "Bombers"
	TagTank             = "Tanks"
	TagTruck            = "Trucks"
	TagShip             = "Ships"
)

// classificationRule maps a set of required capability tags to an attribute
type classificationRule struct {
	attribute Attribute
	required  []string
}

// classificationOrder resolves overlapping capability tags: the first rule
// whose tags are all present wins. Transport capabilities come before combat
// roles so that an armed transport still counts as transport capacity.
//
// Infantry is deliberately checked before AttackHelicopter, Bomber, Tank and
// Truck; a unit tagged both Infantry and Artillery classifies as Artillery.
// Reordering these rules changes observable classification, so don't.
var classificationOrder = []classificationRule{
	{AttributeTransportPlane, []string{TagTransport, TagPlane}},
	{AttributeTransportHelo, []string{TagTransport, TagHelicopter}},
	{AttributeTransportAPC, []string{TagAPC}},
	{AttributeFighter, []string{TagFighter}},
	{AttributeTanker, []string{TagTanker}},
	{AttributeAWACS, []string{TagAWACS}},
	{AttributeArtillery, []string{TagArtillery}},
	{AttributeInfantry, []string{TagInfantry}},
	{AttributeAttackHelicopter, []string{TagAttackHelicopter}},
	{AttributeBomber, []string{TagBomber}},
	{AttributeTank, []string{TagTank}},
	{AttributeTruck, []string{TagTruck}},
	{AttributeShip, []string{TagShip}},
}

// Classify derives the generalized attribute from a template's capability
// tags. Templates with no recognized tag classify as Other; classification
// never fails.
func Classify(tags []string) Attribute {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}

	for _, rule := range classificationOrder {
		matched := true
		for _, required := range rule.required {
			if !tagSet[required] {
				matched = false
				break
			}
		}
		if matched {
			return rule.attribute
		}
	}
	return AttributeOther
}

// IsTransport reports whether the attribute represents transport capacity
func (a Attribute) IsTransport() bool {
	switch a {
	case AttributeTransportPlane, AttributeTransportHelo, AttributeTransportAPC:
		return true
	}
	return false
}
