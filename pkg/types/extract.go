package types

// TableReport summarizes one table's extract run
type TableReport struct {
	Table     string `json:"table"`
	Rows      int    `json:"rows"`
	Key       string `json:"key,omitempty"`
	Watermark string `json:"watermark,omitempty"`
}

// ExtractReport summarizes a full extract run across all configured tables
type ExtractReport struct {
	Tables []TableReport `json:"tables"`
}

// Rows returns the total number of rows extracted across all tables
func (r *ExtractReport) Rows() int {
	total := 0
	for _, t := range r.Tables {
		total += t.Rows
	}
	return total
}
