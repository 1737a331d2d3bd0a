package catalog

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// WriteCSV writes products in the catalog column layout, header first.
func WriteCSV(w io.Writer, products []Product) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(products) == 0 {
		if err := enc.EncodeHeader(Product{}); err != nil {
			return eris.Wrap(err, "csv: encode header")
		}
	} else if err := enc.Encode(products); err != nil {
		return eris.Wrap(err, "csv: encode products")
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}
	return nil
}

// WriteCSVFile writes products to path, replacing any existing file.
func WriteCSVFile(path string, products []Product) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}

	if err := WriteCSV(f, products); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "csv: close file")
}
