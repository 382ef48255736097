package core

import (
	"fmt"
	"net"
	"reflect"
	"strconv"
	"strings"
)

const (
	DefaultAddress = "127.0.0.1"
	DefaultPort    = 3306
)

// OptionScope is the catalog object an option is attached to.
type OptionScope int

const (
	ScopeServer OptionScope = iota
	ScopeUserMapping
	ScopeTable
)

func (s OptionScope) String() string {
	switch s {
	case ScopeServer:
		return "server"
	case ScopeUserMapping:
		return "user mapping"
	case ScopeTable:
		return "foreign table"
	default:
		return "unknown"
	}
}

// Option is a single key/value pair as stored in the catalog.
type Option struct {
	Name  string
	Value string
	Scope OptionScope
}

// validOptions lists every option the wrapper understands and where it may appear.
var validOptions = []struct {
	name  string
	scope OptionScope
}{
	// connection
	{"address", ScopeServer},
	{"port", ScopeServer},
	{"username", ScopeUserMapping},
	{"password", ScopeUserMapping},
	// table
	{"database", ScopeTable},
	{"query", ScopeTable},
	{"table", ScopeTable},
}

// IsValidOption reports whether the option name is allowed in scope.
func IsValidOption(name string, scope OptionScope) bool {
	for _, opt := range validOptions {
		if opt.scope == scope && opt.name == name {
			return true
		}
	}
	return false
}

func validOptionsHint(scope OptionScope) string {
	var names []string
	for _, opt := range validOptions {
		if opt.scope == scope {
			names = append(names, opt.name)
		}
	}
	if len(names) < 1 {
		return "<none>"
	}
	return strings.Join(names, ", ")
}

// ValidateOptions checks the options given to a single catalog object.
// Unknown names, repeated names, a table combined with a query and a
// malformed port are rejected.
func ValidateOptions(scope OptionScope, opts ...Option) error {
	seen := make(map[string]bool, len(opts))

	for _, opt := range opts {
		if !IsValidOption(opt.Name, scope) {
			return ErrInvalidOptionName(opt.Name, validOptionsHint(scope))
		}

		switch opt.Name {
		case "query":
			if seen["table"] {
				return ErrConflictingOption("query", "table")
			}
		case "table":
			if seen["query"] {
				return ErrConflictingOption("table", "query")
			}
		case "port":
			port, err := strconv.Atoi(strings.TrimSpace(opt.Value))
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("%w: invalid port %q", ErrConfig, opt.Value)
			}
		}

		if seen[opt.Name] {
			// never echo secrets back
			if opt.Name == "password" {
				return ErrRedundantOption(opt.Name, "")
			}
			return ErrRedundantOption(opt.Name, opt.Value)
		}
		seen[opt.Name] = true
	}

	return nil
}

// RemoteOptions is the resolved connection and query configuration of one
// foreign table.
type RemoteOptions struct {
	Address  string `option:"address"`
	Port     int    `option:"port"`
	Username string `option:"username"`
	Password string `option:"password"`
	Database string `option:"database"`
	Query    string `option:"query"`
	Table    string `option:"table"`
}

// NewRemoteOptions folds the options of a table, its server and the user
// mapping into RemoteOptions. Later options overwrite earlier ones, values
// are expanded (see expandOrDefault) and defaults are applied.
func NewRemoteOptions(opts ...Option) (*RemoteOptions, error) {
	ro := new(RemoteOptions)

	v := reflect.ValueOf(ro).Elem()
	fields := make(map[string]int, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		if name := v.Type().Field(i).Tag.Get("option"); name != "" {
			fields[name] = i
		}
	}

	for _, opt := range opts {
		i, ok := fields[opt.Name]
		if !ok {
			continue
		}
		value := expandOrDefault(opt.Value)

		field := v.Field(i)
		switch field.Kind() {
		case reflect.Int:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("%w: option %q: %q is not an integer", ErrConfig, opt.Name, value)
			}
			field.SetInt(int64(n))
		default:
			field.SetString(value)
		}
	}

	if ro.Address == "" {
		ro.Address = DefaultAddress
	}
	if ro.Port == 0 {
		ro.Port = DefaultPort
	}

	if ro.Table == "" && ro.Query == "" {
		return nil, ErrNoTableOrQuery
	}

	return ro, nil
}

// EffectiveQuery is the statement sent to the remote server for a scan: the
// configured query verbatim, or a select of all columns from the table.
func (o *RemoteOptions) EffectiveQuery() string {
	if o.Query != "" {
		return o.Query
	}
	return "SELECT * FROM " + o.Table
}

// ExplainQuery wraps EffectiveQuery with an EXPLAIN directive.
func (o *RemoteOptions) ExplainQuery() string {
	return "EXPLAIN " + o.EffectiveQuery()
}

// Addr returns the host:port pair to dial.
func (o *RemoteOptions) Addr() string {
	return net.JoinHostPort(o.Address, strconv.Itoa(o.Port))
}

// IsLocal reports whether the server address is a loopback literal.
func (o *RemoteOptions) IsLocal() bool {
	return o.Address == "127.0.0.1" || o.Address == "localhost"
}
