package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // A shared printer is the usual x/text/message pattern.
var printer = message.NewPrinter(language.English)

// FormatNumber formats n with thousand separators: 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision decimals and groups the integer part:
// FormatFloat(1234.567, 2) -> "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(int64(math.Round(f)))
	}

	formatted := strconv.FormatFloat(f, 'f', precision, 64)
	whole, frac, _ := strings.Cut(formatted, ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return formatted
	}

	grouped := FormatNumber(n)
	if n == 0 && strings.HasPrefix(whole, "-") {
		grouped = "-" + grouped
	}
	return grouped + "." + frac
}

// FormatEmissions renders kg in unit with two decimals and the unit label,
// e.g. "1,234.57 kg CO2e". Unknown units fall back to kilograms.
func FormatEmissions(kg float64, unit string) string {
	u, err := ParseUnit(unit)
	if err != nil {
		u = DefaultUnit
	}
	v, err := ConvertFromKg(kg, string(u))
	if err != nil {
		return FormatFloat(kg, 2) + " " + DefaultUnit.Label()
	}
	return FormatFloat(v, 2) + " " + u.Label()
}

// FormatLarge abbreviates values of a million or more:
// 1500000000 -> "~1.5 billion".
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
