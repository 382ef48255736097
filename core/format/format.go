package format

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kndndrj/mysql-fdw/core"
)

// Formatter renders materialized tuples.
type Formatter interface {
	Name() string
	Format(header core.Header, rows []*core.Tuple, writer io.Writer) error
}

const nullText = "NULL"

// Get returns the formatter registered under name.
func Get(name string) (Formatter, error) {
	switch name {
	case "table", "":
		return NewTable(), nil
	case "csv":
		return NewCSV(), nil
	case "json":
		return NewJSON(), nil
	}
	return nil, fmt.Errorf("unknown output format: %q", name)
}

// text renders a single value the way the local server prints it.
func text(v any) string {
	switch val := v.(type) {
	case nil:
		return nullText
	case []byte:
		return `\x` + hex.EncodeToString(val)
	case json.RawMessage:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05.999999")
	case bool:
		if val {
			return "t"
		}
		return "f"
	default:
		return fmt.Sprint(val)
	}
}
