package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// renderCSV writes a header row followed by one record per row. NULLs arrive
// as empty strings, matching the historical exports.
func renderCSV(cols []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
