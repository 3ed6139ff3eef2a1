// Package export renders item records as a spreadsheet-friendly CSV file.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// bom makes Excel open the file as UTF-8.
const bom = "\uFEFF"

var (
	// ErrNoRecords is returned when there is nothing to export.
	ErrNoRecords = errors.New("export: no records")

	// ErrInvalidRecords is returned when the body is not an array of objects.
	ErrInvalidRecords = errors.New("export: body must be an array of objects")
)

// Record keeps the key order of the JSON object it was decoded from.
type Record = *orderedmap.OrderedMap[string, any]

// DecodeRecords accepts either a JSON array of objects or an object with
// an "items" array.
func DecodeRecords(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoRecords
	}

	var records []Record
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecords, err)
		}
	case '{':
		var wrapper struct {
			Items []Record `json:"items"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecords, err)
		}
		records = wrapper.Items
	default:
		return nil, ErrInvalidRecords
	}

	for _, r := range records {
		if r == nil {
			return nil, ErrInvalidRecords
		}
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Columns returns the keys of the first record in order.
func Columns(records []Record) []string {
	if len(records) == 0 {
		return nil
	}
	cols := make([]string, 0, records[0].Len())
	for pair := records[0].Oldest(); pair != nil; pair = pair.Next() {
		cols = append(cols, pair.Key)
	}
	return cols
}

// WriteCSV writes a UTF-8 BOM, a header row taken from the first record,
// and one row per record. Keys missing from a record become empty cells.
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cols := Columns(records)
	if err := cw.Write(cols); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, r := range records {
		for i, col := range cols {
			v, _ := r.Get(col)
			cell, err := formatCell(v)
			if err != nil {
				return fmt.Errorf("export: column %q: %w", col, err)
			}
			row[i] = cell
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename is the attachment name for an export made at t.
func Filename(t time.Time) string {
	return "items_" + t.Format("20060102") + ".csv"
}

func formatCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
