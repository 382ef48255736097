package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kndndrj/mysql-fdw/core"
)

var _ Formatter = (*CSV)(nil)

type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) Name() string {
	return "csv"
}

// Format writes a header record followed by one record per tuple. NULL is
// written as an empty field.
func (cf *CSV) Format(header core.Header, rows []*core.Tuple, writer io.Writer) error {
	data := [][]string{
		header,
	}
	for _, row := range rows {
		record := make([]string, row.Len())
		for i, val := range row.Values {
			if row.IsNull(i) {
				continue
			}
			record[i] = text(val)
		}
		data = append(data, record)
	}

	w := csv.NewWriter(writer)
	err := w.WriteAll(data)
	if err != nil {
		return fmt.Errorf("w.WriteAll: %w", err)
	}

	return nil
}
