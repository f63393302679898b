package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyquarter/airlift/internal/domain/asset"
)

func TestClassify_TransportBeforeCombatRoles(t *testing.T) {
	// An armed transport still counts as transport capacity
	attr := asset.Classify([]string{asset.TagFighter, asset.TagTransport, asset.TagPlane})
	assert.Equal(t, asset.AttributeTransportPlane, attr)

	attr = asset.Classify([]string{asset.TagAttackHelicopter, asset.TagTransport, asset.TagHelicopter})
	assert.Equal(t, asset.AttributeTransportHelo, attr)
}

func TestClassify_TransportNeedsBothTags(t *testing.T) {
	// "Transports" alone does not decide the airframe kind
	attr := asset.Classify([]string{asset.TagTransport})
	assert.Equal(t, asset.AttributeOther, attr)

	// A helicopter without the transport tag is not transport capacity
	attr = asset.Classify([]string{asset.TagHelicopter})
	assert.Equal(t, asset.AttributeOther, attr)
}

func TestClassify_InfantryBeforeAttackHelicopter(t *testing.T) {
	attr := asset.Classify([]string{asset.TagAttackHelicopter, asset.TagInfantry})
	assert.Equal(t, asset.AttributeInfantry, attr)
}

func TestClassify_ArtilleryBeforeInfantry(t *testing.T) {
	attr := asset.Classify([]string{asset.TagInfantry, asset.TagArtillery})
	assert.Equal(t, asset.AttributeArtillery, attr)
}

func TestClassify_SingleRoleTags(t *testing.T) {
	cases := map[string]asset.Attribute{
		asset.TagAPC:              asset.AttributeTransportAPC,
		asset.TagFighter:          asset.AttributeFighter,
		asset.TagTanker:           asset.AttributeTanker,
		asset.TagAWACS:            asset.AttributeAWACS,
		asset.TagArtillery:        asset.AttributeArtillery,
		asset.TagAttackHelicopter: asset.AttributeAttackHelicopter,
		asset.TagInfantry:         asset.AttributeInfantry,
		asset.TagBomber:           asset.AttributeBomber,
		asset.TagTank:             asset.AttributeTank,
		asset.TagTruck:            asset.AttributeTruck,
		asset.TagShip:             asset.AttributeShip,
	}
	for tag, want := range cases {
		assert.Equal(t, want, asset.Classify([]string{tag}), "tag %q", tag)
	}
}

func TestClassify_UnrecognizedTagsFallBackToOther(t *testing.T) {
	assert.Equal(t, asset.AttributeOther, asset.Classify(nil))
	assert.Equal(t, asset.AttributeOther, asset.Classify([]string{"Static structures"}))
}

func TestAttributes_EnumerationIsStable(t *testing.T) {
	attrs := asset.Attributes()

	assert.Len(t, attrs, 14)
	assert.Equal(t, asset.AttributeTransportPlane, attrs[0])
	assert.Equal(t, asset.AttributeOther, attrs[len(attrs)-1])

	seen := make(map[asset.Attribute]bool)
	for _, a := range attrs {
		assert.False(t, seen[a], "duplicate attribute %s", a)
		seen[a] = true
	}
}

func TestAttribute_IsTransport(t *testing.T) {
	assert.True(t, asset.AttributeTransportPlane.IsTransport())
	assert.True(t, asset.AttributeTransportHelo.IsTransport())
	assert.True(t, asset.AttributeTransportAPC.IsTransport())
	assert.False(t, asset.AttributeTruck.IsTransport())
	assert.False(t, asset.AttributeShip.IsTransport())
}
