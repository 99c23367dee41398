// export.go - Delimited-text export of the rate grid.
package rms

import (
	"bytes"
	"encoding/csv"
)

// ExportGridCSV renders the persisted grid for one rate code as CSV:
// vehicles as rows (sorted by category then make/model, labeled
// "<category> - <make_model> (<sipp>)"), seasons as columns in display
// priority order. Empty cells stay empty.
func ExportGridCSV(catalogue *Catalogue, matrix *PriceMatrix, code RateCode) ([]byte, error) {
	seasons := catalogue.OrderedSeasons()
	vehicles := catalogue.SortedVehicles()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(seasons)+1)
	header = append(header, "Vehicle")
	for _, s := range seasons {
		header = append(header, string(s.Name))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, v := range vehicles {
		row := make([]string, 0, len(seasons)+1)
		row = append(row, v.Label())
		for _, s := range seasons {
			if price, ok := matrix.Get(s.Name, code, v.SIPP); ok {
				row = append(row, price.String())
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
