package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/greenops"
)

// Band classifies a product's total against the average of its query.
type Band int

const (
	// BandBelow is more than NearAverageMargin under the average.
	BandBelow Band = iota
	// BandNear is within NearAverageMargin of the average.
	BandNear
	// BandAbove is more than NearAverageMargin over the average.
	BandAbove
)

// NearAverageMargin is the relative distance from the average still
// considered "about average".
const NearAverageMargin = 0.10

func (b Band) String() string {
	switch b {
	case BandBelow:
		return "below average"
	case BandNear:
		return "near average"
	case BandAbove:
		return "above average"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// Color returns the card accent for b.
func (b Band) Color() lipgloss.Color {
	switch b {
	case BandBelow:
		return ColorOK
	case BandAbove:
		return ColorCritical
	case BandNear:
		return ColorWarning
	default:
		return ColorWarning
	}
}

// Classify places total relative to avg. An empty average makes every
// product BandNear.
func Classify(total float64, avg engine.AverageResult) Band {
	if avg.IsEmpty || avg.MeanKg <= 0 {
		return BandNear
	}
	switch {
	case total < avg.MeanKg*(1-NearAverageMargin):
		return BandBelow
	case total > avg.MeanKg*(1+NearAverageMargin):
		return BandAbove
	default:
		return BandNear
	}
}

// RenderCard draws one ranked product.
func RenderCard(rank int, sp engine.ScoredProduct, avg engine.AverageResult, unit string) string {
	band := Classify(sp.TotalEmissions, avg)

	title := HeaderStyle.Render(fmt.Sprintf("#%d %s - %s", rank, sp.Industry, sp.MaterialType))
	meta := SubtleStyle.Render(fmt.Sprintf("%s kg by %s, %s km",
		strconv.FormatFloat(sp.WeightKg, 'f', -1, 64), sp.Mode, strconv.FormatFloat(sp.DistanceKm, 'f', 0, 64)))

	lines := []string{
		title,
		meta,
		LabelStyle.Render("Production: ") + ValueStyle.Render(greenops.FormatEmissions(sp.ProductionEmissions, unit)),
		LabelStyle.Render("Logistics:  ") + ValueStyle.Render(greenops.FormatEmissions(sp.LogisticsEmissions, unit)),
		LabelStyle.Render("Total:      ") +
			lipgloss.NewStyle().Bold(true).Foreground(band.Color()).
				Render(greenops.FormatEmissions(sp.TotalEmissions, unit)+" ("+band.String()+")"),
	}

	return BoxStyle.BorderForeground(band.Color()).Render(strings.Join(lines, "\n"))
}

// RenderAverage is the line summarizing the filtered population.
func RenderAverage(avg engine.AverageResult, unit string) string {
	if avg.IsEmpty {
		return SubtleStyle.Render("Average total emissions: n/a")
	}
	line := LabelStyle.Render(fmt.Sprintf("Average total emissions over %d products: ", avg.Count)) +
		ValueStyle.Render(greenops.FormatEmissions(avg.MeanKg, unit))
	if eq := greenops.Describe(avg.MeanKg); eq != "" {
		line += "\n" + SubtleStyle.Render(eq)
	}
	return line
}

// RenderCards draws a ranking as stacked cards followed by the average.
func RenderCards(res engine.Result, unit string) string {
	if len(res.Top) == 0 {
		return WarningStyle.Render(engine.NoResultsMessage)
	}

	cards := make([]string, 0, len(res.Top))
	for i, sp := range res.Top {
		cards = append(cards, RenderCard(i+1, sp, res.Average, unit))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...) + "\n" + RenderAverage(res.Average, unit)
}
