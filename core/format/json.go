package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kndndrj/mysql-fdw/core"
)

var _ Formatter = (*JSON)(nil)

type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (jf *JSON) Name() string {
	return "json"
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case nil, json.RawMessage, string, bool,
		int16, int32, int64, float32, float64:
		return val
	case decimal.Decimal:
		// keep the exact digits
		return json.Number(val.String())
	case uuid.UUID:
		return val.String()
	default:
		return text(val)
	}
}

func (jf *JSON) Format(header core.Header, rows []*core.Tuple, writer io.Writer) error {
	data := []map[string]any{}

	for _, row := range rows {
		record := make(map[string]any, row.Len())
		for i, val := range row.Values {
			var h string
			if i < len(header) {
				h = header[i]
			} else {
				h = fmt.Sprintf("<unknown-field-%d>", i)
			}
			record[h] = jsonValue(val)
		}
		data = append(data, record)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	_, err = writer.Write(append(out, '\n'))
	return err
}
