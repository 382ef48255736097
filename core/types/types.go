// Package types holds the local types a foreign table column can be declared
// with, and the input functions converting remote text into typed values.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Category groups types the way the local catalog does. Only string
// category values are checked against the database encoding.
type Category byte

const (
	CategoryString   Category = 'S'
	CategoryNumeric  Category = 'N'
	CategoryBoolean  Category = 'B'
	CategoryDateTime Category = 'D'
	CategoryUser     Category = 'U'
)

func (c Category) String() string {
	switch c {
	case CategoryString:
		return "string"
	case CategoryNumeric:
		return "numeric"
	case CategoryBoolean:
		return "boolean"
	case CategoryDateTime:
		return "datetime"
	case CategoryUser:
		return "user"
	default:
		return "unknown"
	}
}

// InputFunc converts the raw bytes of a non-null value. length is the
// declared type modifier (e.g. 20 for varchar(20)), or -1 when absent.
type InputFunc func(raw []byte, length int) (any, error)

// Type is a local column type.
type Type struct {
	Name     string
	Category Category
	Input    InputFunc
}

var (
	ErrUnknownType      = errors.New("type does not exist")
	ErrNoValidTypeAlias = errors.New("no valid type aliases provided")
)

// ErrInvalidSyntax and friends mirror the messages of the local input functions.
var (
	ErrInvalidSyntax = func(typ string, raw []byte) error {
		return fmt.Errorf("invalid input syntax for type %s: %q", typ, string(raw))
	}
	ErrOutOfRange = func(typ string, raw []byte) error {
		return fmt.Errorf("value %q is out of range for type %s", string(raw), typ)
	}
	ErrTooLong = func(typ string, length int) error {
		return fmt.Errorf("value too long for type %s(%d)", typ, length)
	}
)

var registered = make(map[string]*Type)

// Register makes a type available under its name and the given aliases.
func Register(t *Type, aliases ...string) error {
	if t == nil || t.Input == nil {
		return errors.New("type needs an input function")
	}

	names := append([]string{t.Name}, aliases...)
	valid := 0
	for _, name := range names {
		name = normalizeName(name)
		if name == "" {
			continue
		}
		registered[name] = t
		valid++
	}
	if valid < 1 {
		return ErrNoValidTypeAlias
	}

	return nil
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

var typmodPattern = regexp.MustCompile(`^(.+?)\s*\(\s*(\d+)\s*\)$`)

// Lookup resolves a declared type such as "varchar(20)" or "integer" to
// its Type and type modifier (-1 when none is given).
func Lookup(declared string) (*Type, int, error) {
	name := normalizeName(declared)
	length := -1

	if m := typmodPattern.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return nil, 0, fmt.Errorf("invalid length in type %q", declared)
		}
		name, length = m[1], n
	}

	t, ok := registered[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownType, declared)
	}

	return t, length, nil
}

// MustLookup is Lookup for types known to be registered.
func MustLookup(declared string) *Type {
	t, _, err := Lookup(declared)
	if err != nil {
		panic(err)
	}
	return t
}
