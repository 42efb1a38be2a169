package exchange

import "github.com/orange-its/go-mqtt-client/mobility/position"

// Mobile is the capability view exposed by message variants that carry a
// moving station's kinematic state. Units are always SI.
type Mobile interface {
	MobileID() uint32
	Position() position.Position
	Speed() (float64, bool)
	Heading() (float64, bool)
	Acceleration() (float64, bool)
}

// Mortal is the capability view exposed by message variants that expire.
type Mortal interface {
	Timeout() uint64
	Terminated() bool
	Terminate()
}

// Content is implemented by every Message variant.
type Content interface {
	GetType() string
	// Appropriate rewrites identity fields so a forwarded message carries
	// the forwarder's station identity and a fresh timestamp rather than
	// the origin's.
	Appropriate(etsiTimestamp uint64, newStationID uint32)
	AsMobile() (Mobile, error)
	AsMortal() (Mortal, error)
}
