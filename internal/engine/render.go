package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rshade/ecosort/internal/greenops"
)

// OutputFormat selects how rankings are rendered.
type OutputFormat string

// Supported output formats. OutputCards is rendered by the tui package.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
	OutputCards  OutputFormat = "cards"
)

// OutputFormats lists every supported format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{OutputTable, OutputJSON, OutputNDJSON, OutputCards}
}

// ParseOutputFormat validates s, ignoring case.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OutputFormats() {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// NoResultsMessage is shown when a query matches nothing.
const NoResultsMessage = "No products found for the selected criteria."

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// FormatKg formats an emissions figure with two decimals.
func FormatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatIn converts a kg figure to unit and formats it with two decimals,
// without a label. Unknown units fall back to kilograms.
func FormatIn(kg float64, unit string) string {
	v, err := greenops.ConvertFromKg(kg, string(displayUnit(unit)))
	if err != nil {
		return FormatKg(kg)
	}
	return FormatKg(v)
}

func displayUnit(unit string) greenops.Unit {
	u, err := greenops.ParseUnit(unit)
	if err != nil {
		return greenops.DefaultUnit
	}
	return u
}

// RenderResult writes res in format. Tables show emissions in unit; JSON and
// NDJSON always carry kilograms. OutputCards falls back to the table when
// called here.
func RenderResult(w io.Writer, res Result, format OutputFormat, unit string) error {
	switch format {
	case OutputJSON:
		return RenderJSON(w, res)
	case OutputNDJSON:
		return RenderNDJSON(w, res.Top)
	case OutputTable, OutputCards, "":
		return RenderTable(w, res, unit)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// RenderTable writes the ranking as an aligned table followed by the
// average line, with emissions in unit.
func RenderTable(w io.Writer, res Result, unit string) error {
	if len(res.Top) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)
		return err
	}

	u := displayUnit(unit)
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw,
		"#\tINDUSTRY\tMATERIAL TYPE\tWEIGHT (KG)\tMODE\tDISTANCE (KM)\tPRODUCTION\tLOGISTICS\tTOTAL (%s)\n",
		strings.ToUpper(u.Label())); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw,
		"-\t--------\t-------------\t-----------\t----\t-------------\t----------\t---------\t-----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for i, sp := range res.Top {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			sp.Industry,
			sp.MaterialType,
			strconv.FormatFloat(sp.WeightKg, 'f', -1, 64),
			sp.Mode,
			strconv.FormatFloat(sp.DistanceKm, 'f', 0, 64),
			FormatIn(sp.ProductionEmissions, unit),
			FormatIn(sp.LogisticsEmissions, unit),
			FormatIn(sp.TotalEmissions, unit),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if _, err := fmt.Fprintf(tw, "\t\t\t\t\t\t\t\t\n"); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "AVERAGE\t%d products\t\t\t\t\t\t\t%s %s\n",
		res.Average.Count, FormatIn(res.Average.MeanKg, unit), u.Label()); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}

	return tw.Flush()
}

// RankingMetadata describes the query that produced a JSON document.
type RankingMetadata struct {
	Query       Query     `json:"query"`
	TopN        int       `json:"top_n"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RankingJSONOutput is the top-level JSON document.
type RankingJSONOutput struct {
	Metadata RankingMetadata `json:"metadata"`
	Products []ScoredProduct `json:"products"`
	Average  AverageResult   `json:"average"`
}

// RenderJSON writes res as one indented JSON document.
func RenderJSON(w io.Writer, res Result) error {
	products := res.Top
	if products == nil {
		products = []ScoredProduct{}
	}

	output := RankingJSONOutput{
		Metadata: RankingMetadata{
			Query:       res.Query,
			TopN:        res.TopN,
			GeneratedAt: time.Now().UTC(),
		},
		Products: products,
		Average:  res.Average,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// RenderNDJSON writes one JSON object per ranked product.
func RenderNDJSON(w io.Writer, products []ScoredProduct) error {
	for _, sp := range products {
		data, err := json.Marshal(sp)
		if err != nil {
			return fmt.Errorf("marshaling product: %w", err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing product: %w", err)
		}
	}
	return nil
}

// RenderSummaryTable writes one line per material, with emissions in unit.
func RenderSummaryTable(w io.Writer, summaries []MaterialSummary, unit string) error {
	label := strings.ToUpper(displayUnit(unit).Label())
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "MATERIAL TYPE\tPRODUCTS\tAVERAGE (%s)\tLOWEST\tLOWEST TOTAL\n", label); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-------------\t--------\t-----------------\t------\t------------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, s := range summaries {
		lowest, lowestTotal := "-", "-"
		if s.Lowest != nil {
			lowest = fmt.Sprintf("%s (%s kg, %s)",
				s.Lowest.Industry, strconv.FormatFloat(s.Lowest.WeightKg, 'f', -1, 64), s.Lowest.Mode)
			lowestTotal = FormatIn(s.Lowest.TotalEmissions, unit)
		}
		avg := "-"
		if !s.Average.IsEmpty {
			avg = FormatIn(s.Average.MeanKg, unit)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			s.MaterialType, s.Average.Count, avg, lowest, lowestTotal); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	return tw.Flush()
}
