package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tallyhq/tally/internal/model"
)

// CSVHeader is the header row of a ledger export.
const CSVHeader = "id,date,description,amount,type,category,category_label"

const (
	numFields = 7
	colID     = 0
	colDate   = 1
	colDesc   = 2
	colAmount = 3
	colType   = 4
	colCat    = 5
	colLabel  = 6
)

// LabelFunc resolves a category to its display configuration.
type LabelFunc func(model.Category) model.CategoryConfig

// WriteTransactionsCSV writes txns with a header row. Amounts are fixed to
// two decimal places.
func WriteTransactionsCSV(w io.Writer, txns []model.Transaction, resolve LabelFunc) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t, resolve)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row. A nil resolve
// falls back to default category labels.
func MarshalTransaction(t model.Transaction, resolve LabelFunc) []string {
	if resolve == nil {
		resolve = func(c model.Category) model.CategoryConfig { return model.ResolveConfig(c, nil) }
	}
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colType] = string(t.Type())
	row[colCat] = string(t.Category)
	row[colLabel] = resolve(t.Category).Label
	return row
}
