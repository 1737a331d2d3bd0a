// Package greenops turns kg CO2e figures into display text: unit
// conversion, thousand-separated numbers and EPA equivalencies such as
// miles driven.
package greenops

import (
	"math"
	"strings"
)

// Unit is a mass unit for CO2e figures.
type Unit string

// Supported units. Each also accepts a "CO2e" suffix when parsed.
const (
	UnitGrams  Unit = "g"
	UnitKg     Unit = "kg"
	UnitTonnes Unit = "t"
	UnitPounds Unit = "lb"
)

// DefaultUnit is used when no display unit is configured.
const DefaultUnit = UnitKg

// Units lists the supported units.
func Units() []Unit {
	return []Unit{UnitGrams, UnitKg, UnitTonnes, UnitPounds}
}

// ParseUnit maps s onto a Unit, ignoring case and a trailing "co2e".
func ParseUnit(s string) (Unit, error) {
	u := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "co2e"))
	switch Unit(u) {
	case UnitGrams, UnitKg, UnitTonnes, UnitPounds:
		return Unit(u), nil
	default:
		return "", ErrInvalidUnit
	}
}

// IsRecognizedUnit reports whether ParseUnit accepts s.
func IsRecognizedUnit(s string) bool {
	_, err := ParseUnit(s)
	return err == nil
}

// toKg returns the multiplier converting u into kilograms.
func (u Unit) toKg() float64 {
	switch u {
	case UnitGrams:
		return GramsToKg
	case UnitTonnes:
		return TonsToKg
	case UnitPounds:
		return PoundsToKg
	case UnitKg:
		return KgToKg
	default:
		return KgToKg
	}
}

// Label is the unit as shown next to figures, e.g. "kg CO2e".
func (u Unit) Label() string {
	return string(u) + " CO2e"
}

// NormalizeToKg converts value in unit to kilograms.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if err := checkValue(value); err != nil {
		return 0, err
	}
	u, err := ParseUnit(unit)
	if err != nil {
		return 0, err
	}
	return finite(value * u.toKg())
}

// ConvertFromKg converts kg into unit.
func ConvertFromKg(kg float64, unit string) (float64, error) {
	if err := checkValue(kg); err != nil {
		return 0, err
	}
	u, err := ParseUnit(unit)
	if err != nil {
		return 0, err
	}
	return finite(kg / u.toKg())
}

func checkValue(v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ErrCalculationOverflow
	}
	if v < 0 {
		return ErrNegativeValue
	}
	return nil
}

func finite(v float64) (float64, error) {
	if math.IsInf(v, 0) {
		return 0, ErrCalculationOverflow
	}
	return v, nil
}
