package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Recorder appends training curves to a CSV file, one row per recorded
// epoch. The header is written when the file is first created. Rows may
// carry fewer values than there are labels; missing columns stay empty.
type Recorder struct {
	path   string
	labels []string
}

// NewRecorder prepares a recorder writing to path with the given curve
// labels.
func NewRecorder(path string, labels ...string) *Recorder {
	return &Recorder{path: path, labels: labels}
}

// Record appends one row: the x value followed by the y values present.
func (r *Recorder) Record(x int, ys ...float64) error {
	if len(ys) > len(r.labels) {
		return fmt.Errorf("recording %d values with only %d labels", len(ys), len(r.labels))
	}

	var needsHeader bool
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		needsHeader = true
	}
	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if needsHeader {
		if err := w.Write(append([]string{"epoch"}, r.labels...)); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}

	record := make([]string, 1+len(r.labels))
	record[0] = strconv.Itoa(x)
	for i, y := range ys {
		record[i+1] = strconv.FormatFloat(y, 'f', 5, 64)
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("writing csv record: %w", err)
	}
	w.Flush()
	return w.Error()
}
