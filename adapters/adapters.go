package adapters

import (
	"errors"
	"strings"

	"github.com/kndndrj/mysql-fdw/core"
)

var (
	errNoValidTypeAliases   = errors.New("no valid type aliases provided")
	ErrUnsupportedTypeAlias = errors.New("no connector registered for provided type alias")
)

// registeredConnectors holds implemented connectors. Specific adapters
// register themselves in their init functions.
var registeredConnectors = make(map[string]core.Connector)

// register registers a new connector for specific server flavours
func register(connector core.Connector, aliases ...string) error {
	if len(aliases) < 1 {
		return errNoValidTypeAliases
	}

	invalidCount := 0
	for _, alias := range aliases {
		if alias == "" {
			invalidCount++
			continue
		}
		registeredConnectors[strings.ToLower(alias)] = connector
	}

	if invalidCount == len(aliases) {
		return errNoValidTypeAliases
	}

	return nil
}

// Mux is an interface to all internal connectors.
type Mux struct{}

// GetConnector returns the connector for typ, defaulting to mysql.
func (*Mux) GetConnector(typ string) (core.Connector, error) {
	if typ == "" {
		typ = "mysql"
	}
	value, ok := registeredConnectors[strings.ToLower(typ)]
	if !ok {
		return nil, ErrUnsupportedTypeAlias
	}

	return value, nil
}

func (*Mux) AddConnector(typ string, connector core.Connector) error {
	return register(connector, typ)
}

// Types lists all registered aliases.
func (*Mux) Types() []string {
	types := make([]string, 0, len(registeredConnectors))
	for alias := range registeredConnectors {
		types = append(types, alias)
	}
	return types
}
