package catalog

import (
	"fmt"
	"strings"
)

// TransportMode is the canonical shipping mode of a product. The zero value
// is ModeLand, which is also the fallback for unrecognized source values.
type TransportMode int

const (
	// ModeLand covers "land" and "road".
	ModeLand TransportMode = iota
	// ModeSea covers "sea" and "water".
	ModeSea
	// ModeAir covers "air".
	ModeAir
)

// DefaultTransportMode is applied when a source value is not recognized.
const DefaultTransportMode = ModeLand

// String returns the canonical lower-case name.
func (m TransportMode) String() string {
	switch m {
	case ModeLand:
		return "land"
	case ModeSea:
		return "sea"
	case ModeAir:
		return "air"
	default:
		return fmt.Sprintf("TransportMode(%d)", int(m))
	}
}

// MarshalText encodes the canonical name.
func (m TransportMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts any recognized alias and rejects everything else.
func (m *TransportMode) UnmarshalText(text []byte) error {
	mode, ok := ParseTransportMode(string(text))
	if !ok {
		return fmt.Errorf("unknown transport mode %q", string(text))
	}
	*m = mode
	return nil
}

// ParseTransportMode maps a source value onto the canonical enumeration,
// ignoring case and surrounding whitespace. The boolean is false when the
// value was not recognized and DefaultTransportMode was returned instead.
func ParseTransportMode(s string) (TransportMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "air":
		return ModeAir, true
	case "sea", "water":
		return ModeSea, true
	case "land", "road":
		return ModeLand, true
	default:
		return DefaultTransportMode, false
	}
}

// TransportModes lists the canonical modes.
func TransportModes() []TransportMode {
	return []TransportMode{ModeLand, ModeSea, ModeAir}
}
