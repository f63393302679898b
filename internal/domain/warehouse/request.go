package warehouse

import (
	"fmt"

	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
)

// TransportType selects how granted assets travel to the requesting location
type TransportType string

const (
	TransportSelfPropelled TransportType = "SELF_PROPELLED"
	TransportAirplane      TransportType = "AIRPLANE"
	TransportHelicopter    TransportType = "HELICOPTER"
	TransportAPC           TransportType = "APC"
	TransportTrain         TransportType = "TRAIN"
	TransportShip          TransportType = "SHIP"
)

// Attribute returns the stock attribute that provides this transport
// capacity. The second return is false for self-propelled movement and for
// train transport, which has no attribute in the classification enum.
func (t TransportType) Attribute() (asset.Attribute, bool) {
	switch t {
	case TransportAirplane:
		return asset.AttributeTransportPlane, true
	case TransportHelicopter:
		return asset.AttributeTransportHelo, true
	case TransportAPC:
		return asset.AttributeTransportAPC, true
	case TransportShip:
		return asset.AttributeShip, true
	}
	return "", false
}

// Request asks a warehouse to issue assets and move them to a destination.
// It is a transient value: it exists only for the duration of one transition
// cycle and is never persisted.
type Request struct {
	// Origin names the requesting location, used in denial messages
	Origin string

	// Destination is the zone the issued assets are delivered to
	Destination shared.Zone

	// Descriptor and Value select which stock matches the request
	Descriptor asset.Descriptor
	Value      any

	// Quantity of matching stock to issue; defaults to 1
	Quantity int

	// Transport mode; defaults to self-propelled
	Transport TransportType
}

// normalize applies the documented defaults in place
func (r *Request) normalize() {
	if r.Quantity < 1 {
		r.Quantity = 1
	}
	if r.Transport == "" {
		r.Transport = TransportSelfPropelled
	}
}

func (r *Request) String() string {
	return fmt.Sprintf("Request(%s: %dx %s=%v via %s)",
		r.Origin, r.Quantity, r.Descriptor, r.Value, r.Transport)
}
