package greenops

// EPA greenhouse gas equivalency divisors (2024 edition), in kg CO2e per
// unit of activity: equivalency = kg_CO2e / factor.
const (
	// EPAMilesDrivenFactor is kg CO2e per mile in an average passenger car.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2e absorbed by one seedling over 10 years.
	EPATreeSeedlingFactor = 60.0
)

// Conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest footprint that gets an
	// equivalency sentence. Product-level figures are often below it.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches FormatLarge to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches FormatLarge to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
