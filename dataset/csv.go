package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

// ReadCSV reads a header row followed by data rows. Cells are kept as text;
// Extract performs the numeric coercion.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, errors.NewNoDataError("ReadCSV", 0)
	}
	if err != nil {
		return Table{}, errors.Wrap(err, "read csv header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	t := Table{Columns: columns}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, errors.Wrapf(err, "read csv row %d", len(t.Rows)+1)
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
