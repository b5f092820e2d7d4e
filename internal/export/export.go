// Package export serializes generated rows into the formats the API offers
// for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/singularsity/synthd/internal/types"
)

// EncodeRows serializes rows in the requested format and returns the bytes
// together with the matching content type.
func EncodeRows(format string, columns []string, rows []types.Record) ([]byte, string, error) {
	switch format {
	case types.FormatCSV:
		data, err := EncodeCSV(columns, rows)
		return data, "text/csv", err
	case types.FormatJSON:
		data, err := EncodeJSON(rows)
		return data, "application/json", err
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// EncodeCSV writes rows as CSV with the column list as header. Column order
// follows the request; missing values render as empty cells.
func EncodeCSV(columns []string, rows []types.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		for j, col := range columns {
			record[j] = formatValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON writes rows as an indented JSON array.
func EncodeJSON(rows []types.Record) ([]byte, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}
	return data, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
