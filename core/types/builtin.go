package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxNameLen is the longest identifier the local catalog keeps.
const maxNameLen = 63

func init() {
	_ = Register(&Type{Name: "smallint", Category: CategoryNumeric, Input: intInput("smallint", 16)}, "int2")
	_ = Register(&Type{Name: "integer", Category: CategoryNumeric, Input: intInput("integer", 32)}, "int4", "int")
	_ = Register(&Type{Name: "bigint", Category: CategoryNumeric, Input: intInput("bigint", 64)}, "int8")
	_ = Register(&Type{Name: "real", Category: CategoryNumeric, Input: floatInput("real", 32)}, "float4")
	_ = Register(&Type{Name: "double precision", Category: CategoryNumeric, Input: floatInput("double precision", 64)}, "float8", "float")
	_ = Register(&Type{Name: "numeric", Category: CategoryNumeric, Input: numericInput}, "decimal")
	_ = Register(&Type{Name: "boolean", Category: CategoryBoolean, Input: boolInput}, "bool")

	_ = Register(&Type{Name: "text", Category: CategoryString, Input: textInput})
	_ = Register(&Type{Name: "character varying", Category: CategoryString, Input: varcharInput}, "varchar")
	_ = Register(&Type{Name: "character", Category: CategoryString, Input: bpcharInput}, "char", "bpchar")
	_ = Register(&Type{Name: "name", Category: CategoryString, Input: nameInput})

	_ = Register(&Type{Name: "date", Category: CategoryDateTime, Input: timeInput("date", "2006-01-02")})
	_ = Register(&Type{Name: "timestamp", Category: CategoryDateTime,
		Input: timeInput("timestamp", "2006-01-02 15:04:05", "2006-01-02T15:04:05")},
		"timestamp without time zone", "datetime")
	_ = Register(&Type{Name: "time", Category: CategoryDateTime, Input: timeInput("time", "15:04:05")},
		"time without time zone")

	_ = Register(&Type{Name: "bytea", Category: CategoryUser, Input: byteaInput})
	_ = Register(&Type{Name: "json", Category: CategoryUser, Input: jsonInput("json")})
	_ = Register(&Type{Name: "jsonb", Category: CategoryUser, Input: jsonInput("jsonb")})
	_ = Register(&Type{Name: "uuid", Category: CategoryUser, Input: uuidInput})
}

func intInput(name string, bits int) InputFunc {
	return func(raw []byte, _ int) (any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, bits)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, ErrOutOfRange(name, raw)
			}
			return nil, ErrInvalidSyntax(name, raw)
		}

		switch bits {
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		default:
			return n, nil
		}
	}
}

func floatInput(name string, bits int) InputFunc {
	return func(raw []byte, _ int) (any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), bits)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, ErrOutOfRange(name, raw)
			}
			return nil, ErrInvalidSyntax(name, raw)
		}

		if bits == 32 {
			return float32(f), nil
		}
		return f, nil
	}
}

func numericInput(raw []byte, _ int) (any, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, ErrInvalidSyntax("numeric", raw)
	}
	return d, nil
}

func boolInput(raw []byte, _ int) (any, error) {
	switch strings.ToLower(strings.TrimSpace(string(raw))) {
	case "t", "true", "y", "yes", "on", "1":
		return true, nil
	case "f", "false", "n", "no", "off", "0":
		return false, nil
	default:
		return nil, ErrInvalidSyntax("boolean", raw)
	}
}

func textInput(raw []byte, _ int) (any, error) {
	return string(raw), nil
}

// fitLength applies a character length limit. Trailing spaces beyond the
// limit are cut off, anything else is an error.
func fitLength(typ string, s string, length int) (string, error) {
	if length < 0 || utf8.RuneCountInString(s) <= length {
		return s, nil
	}

	cut := 0
	for i := range s {
		if cut == length {
			if strings.TrimRight(s[i:], " ") != "" {
				return "", ErrTooLong(typ, length)
			}
			return s[:i], nil
		}
		cut++
	}
	return s, nil
}

func varcharInput(raw []byte, length int) (any, error) {
	return fitLength("character varying", string(raw), length)
}

func bpcharInput(raw []byte, length int) (any, error) {
	s, err := fitLength("character", string(raw), length)
	if err != nil {
		return nil, err
	}
	if pad := length - utf8.RuneCountInString(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s, nil
}

func nameInput(raw []byte, _ int) (any, error) {
	if len(raw) <= maxNameLen {
		return string(raw), nil
	}
	// cut on a character boundary
	n := maxNameLen
	for n > 0 && !utf8.RuneStart(raw[n]) {
		n--
	}
	return string(raw[:n]), nil
}

func timeInput(name string, layouts ...string) InputFunc {
	return func(raw []byte, _ int) (any, error) {
		s := strings.TrimSpace(string(raw))
		for _, layout := range layouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
		}
		return nil, ErrInvalidSyntax(name, raw)
	}
}

func byteaInput(raw []byte, _ int) (any, error) {
	if bytes.HasPrefix(raw, []byte(`\x`)) {
		out := make([]byte, hex.DecodedLen(len(raw)-2))
		n, err := hex.Decode(out, raw[2:])
		if err != nil {
			return nil, ErrInvalidSyntax("bytea", raw)
		}
		return out[:n], nil
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			out = append(out, raw[i])
			continue
		}

		switch {
		case i+1 < len(raw) && raw[i+1] == '\\':
			out = append(out, '\\')
			i++
		case i+3 < len(raw) && isOctal(raw[i+1]) && raw[i+1] <= '3' && isOctal(raw[i+2]) && isOctal(raw[i+3]):
			out = append(out, (raw[i+1]-'0')<<6|(raw[i+2]-'0')<<3|(raw[i+3]-'0'))
			i += 3
		default:
			return nil, ErrInvalidSyntax("bytea", raw)
		}
	}
	return out, nil
}

func isOctal(b byte) bool {
	return b >= '0' && b <= '7'
}

func jsonInput(name string) InputFunc {
	return func(raw []byte, _ int) (any, error) {
		if !json.Valid(raw) {
			return nil, ErrInvalidSyntax(name, raw)
		}
		return json.RawMessage(bytes.Clone(raw)), nil
	}
}

func uuidInput(raw []byte, _ int) (any, error) {
	id, err := uuid.ParseBytes(bytes.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidSyntax("uuid", raw)
	}
	return id, nil
}
