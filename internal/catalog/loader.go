package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/rshade/ecosort/internal/logging"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports often
// prepend it.
const utf8BOM = "\ufeff"

// LoadOptions tunes how a source is read.
type LoadOptions struct {
	// Sheet selects an XLSX sheet by name. Empty means the first sheet.
	Sheet string
}

// rowReader yields one record per call and io.EOF at the end. It matches
// csvutil.Reader.
type rowReader interface {
	Read() ([]string, error)
}

// Load reads the catalog at path. The format follows the extension: .xlsx
// is read as a spreadsheet, anything else as CSV.
func Load(ctx context.Context, path string) (*Catalog, error) {
	return LoadWithOptions(ctx, path, LoadOptions{})
}

// LoadWithOptions is Load with explicit options.
func LoadWithOptions(ctx context.Context, path string, opts LoadOptions) (*Catalog, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if strings.TrimSpace(path) == "" {
		return nil, &DataSourceError{Source: "<none>", Reason: "no catalog path given"}
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "catalog").
		Str("operation", "load").
		Str("path", path).
		Msg("loading catalog")

	var (
		products []Product
		err      error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		products, err = loadXLSX(ctx, path, opts)
	case ".csv", ".txt", "":
		products, err = loadCSV(ctx, path)
	default:
		err = &DataSourceError{
			Source: path,
			Reason: fmt.Sprintf("unsupported file extension %q (want .csv or .xlsx)", filepath.Ext(path)),
		}
	}
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "catalog").
			Str("path", path).
			Err(err).
			Msg("failed to load catalog")
		return nil, err
	}

	c := New(path, products)
	log.Info().
		Ctx(ctx).
		Str("component", "catalog").
		Str("operation", "load").
		Str("path", path).
		Int("products", c.Len()).
		Int("material_types", len(c.materials)).
		Dur("duration", time.Since(start)).
		Msg("catalog loaded")

	return c, nil
}

// Read decodes a CSV catalog from r. name identifies the stream in errors.
func Read(ctx context.Context, r io.Reader, name string) (*Catalog, error) {
	products, err := decode(ctx, name, newCSVReader(r))
	if err != nil {
		return nil, err
	}
	return New(name, products), nil
}

func loadCSV(ctx context.Context, path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Source: path, Reason: "cannot open file", Err: eris.Wrap(err, "csv: open file")}
	}
	defer f.Close()

	return decode(ctx, path, newCSVReader(f))
}

func loadXLSX(ctx context.Context, path string, opts LoadOptions) ([]Product, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &DataSourceError{Source: path, Reason: "cannot open spreadsheet", Err: eris.Wrap(err, "xlsx: open file")}
	}

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, &DataSourceError{Source: path, Reason: "sheet not available", Err: err}
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if isBlank(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	return decode(ctx, path, &sliceReader{rows: rows, pad: true})
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// decode reads the header, checks required columns, then decodes and
// validates every record in order.
func decode(ctx context.Context, source string, rr rowReader) ([]Product, error) {
	header, err := rr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataSourceError{Source: source, Reason: "source is empty (no header row)"}
	}
	if err != nil {
		return nil, &DataSourceError{Source: source, Reason: "cannot read header", Err: eris.Wrap(err, "csv: read header")}
	}

	header = normalizeHeader(header)
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &DataSourceError{
			Source: source,
			Reason: "missing required columns: " + strings.Join(missing, ", "),
		}
	}

	if sr, ok := rr.(*sliceReader); ok {
		sr.width = len(header)
	}

	dec, err := csvutil.NewDecoder(rr, header...)
	if err != nil {
		return nil, &DataSourceError{Source: source, Reason: "cannot build decoder", Err: eris.Wrap(err, "csv: decoder")}
	}

	var products []Product
	for record := 1; ; record++ {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "catalog: context cancelled")
		}

		var p Product
		if err := dec.Decode(&p); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DataSourceError{Source: source, Record: record, Reason: "malformed record", Err: eris.Wrap(err, "csv: decode record")}
		}

		if reason := validateProduct(p); reason != "" {
			return nil, &DataSourceError{Source: source, Record: record, Reason: reason}
		}

		products = append(products, p)
	}

	return products, nil
}

func validateProduct(p Product) string {
	switch {
	case strings.TrimSpace(p.MaterialType) == "":
		return "empty " + ColumnMaterialType
	case math.IsNaN(p.WeightKg) || math.IsInf(p.WeightKg, 0) || p.WeightKg <= 0:
		return fmt.Sprintf("%s must be > 0, got %v", ColumnWeight, p.WeightKg)
	case math.IsNaN(p.EmissionFactorPerKg) || math.IsInf(p.EmissionFactorPerKg, 0) || p.EmissionFactorPerKg < 0:
		return fmt.Sprintf("%s must be >= 0, got %v", ColumnEmissionFactor, p.EmissionFactorPerKg)
	default:
		return ""
	}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// trimReader trims whitespace around every field.
type trimReader struct {
	r *csv.Reader
}

func newCSVReader(r io.Reader) *trimReader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return &trimReader{r: cr}
}

func (t *trimReader) Read() ([]string, error) {
	record, err := t.r.Read()
	if err != nil {
		return nil, err
	}
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
	return record, nil
}

// sliceReader serves pre-read spreadsheet rows. Spreadsheets drop trailing
// empty cells, so rows are padded to the header width once it is known.
type sliceReader struct {
	rows  [][]string
	next  int
	width int
	pad   bool
}

func (s *sliceReader) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++

	for i, field := range row {
		row[i] = strings.TrimSpace(field)
	}
	if s.pad && s.width > 0 && len(row) < s.width {
		padded := make([]string, s.width)
		copy(padded, row)
		row = padded
	}
	return row, nil
}
