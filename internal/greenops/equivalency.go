package greenops

import (
	"fmt"
	"math"
)

// EquivalencyType is a category of real-world comparison.
type EquivalencyType int

const (
	// EquivalencyMilesDriven compares to miles in an average passenger car.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged compares to full smartphone charges.
	EquivalencySmartphonesCharged
	// EquivalencyTreeSeedlings compares to seedlings grown for 10 years.
	EquivalencyTreeSeedlings
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", int(e))
	}
}

// EquivalencyResult is one computed comparison.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds the comparisons for one kg CO2e figure.
// IsEmpty is set when the figure is below MinEquivalencyThresholdKg.
type EquivalencyOutput struct {
	InputKg     float64             `json:"input_kg"`
	Results     []EquivalencyResult `json:"results,omitempty"`
	DisplayText string              `json:"display_text,omitempty"`
	IsEmpty     bool                `json:"is_empty"`
}

// Calculate computes equivalencies for value in unit.
func Calculate(value float64, unit string) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(value, unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	return CalculateKg(kg)
}

// CalculateKg computes equivalencies for kg CO2e.
func CalculateKg(kg float64) (EquivalencyOutput, error) {
	if err := checkValue(kg); err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	seedlings := kg / EPATreeSeedlingFactor
	if math.IsInf(miles, 0) || math.IsInf(phones, 0) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}

	results := []EquivalencyResult{
		{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: formatEquivalency(miles), Label: "miles driven"},
		{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: formatEquivalency(phones), Label: "smartphones charged"},
		{Type: EquivalencyTreeSeedlings, Value: seedlings, FormattedValue: FormatFloat(seedlings, 1), Label: "tree seedlings grown for 10 years"},
	}

	return EquivalencyOutput{
		InputKg: kg,
		Results: results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			results[0].FormattedValue, results[1].FormattedValue),
	}, nil
}

// Describe returns the equivalency sentence for kg, or a smartphone-only
// sentence when kg is below MinEquivalencyThresholdKg, or "" for zero and
// invalid values.
func Describe(kg float64) string {
	out, err := CalculateKg(kg)
	if err != nil || kg <= 0 {
		return ""
	}
	if out.IsEmpty {
		return fmt.Sprintf("About the same as charging ~%s smartphones",
			formatEquivalency(kg/EPASmartphoneChargeFactor))
	}
	return out.DisplayText
}

func formatEquivalency(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
