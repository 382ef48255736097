package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/kndndrj/mysql-fdw/core"
)

var ErrNoColumns = errors.New("no columns defined")

// Options is an ordered option list as written in the file. Repeated keys
// are kept so validation can report them.
type Options []core.Option

func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	opts := make(Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: option %q must be a scalar", value.Line, key.Value)
		}
		opts = append(opts, core.Option{
			Name:  key.Value,
			Value: value.Value,
		})
	}

	*o = opts
	return nil
}

func (o Options) withScope(scope core.OptionScope) []core.Option {
	opts := make([]core.Option, len(o))
	for i, opt := range o {
		opt.Scope = scope
		opts[i] = opt
	}
	return opts
}

// Column is one local attribute.
type Column struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Length  int    `yaml:"length"`
	Dropped bool   `yaml:"dropped"`
}

func (c Column) def() core.ColumnDef {
	typ := c.Type
	if c.Length > 0 && !strings.Contains(typ, "(") {
		typ += "(" + strconv.Itoa(c.Length) + ")"
	}
	return core.ColumnDef{
		Name:    c.Name,
		Type:    typ,
		Dropped: c.Dropped,
	}
}

// File describes one foreign table.
type File struct {
	Name           string   `yaml:"name"`
	Type           string   `yaml:"type"`
	Encoding       string   `yaml:"encoding"`
	StrictEncoding bool     `yaml:"strict_encoding"`
	RowsColumn     *int     `yaml:"rows_column"`
	Server         Options  `yaml:"server"`
	UserMapping    Options  `yaml:"user_mapping"`
	Table          Options  `yaml:"table"`
	Columns        []Column `yaml:"columns"`
}

// Load reads and parses a definition file. The table name defaults to the
// file name without extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, err)
	}
	return &f, nil
}

// Validate checks the options of every scope, the encoding and the columns.
func (f *File) Validate() error {
	scopes := []struct {
		scope core.OptionScope
		opts  Options
	}{
		{core.ScopeServer, f.Server},
		{core.ScopeUserMapping, f.UserMapping},
		{core.ScopeTable, f.Table},
	}
	for _, s := range scopes {
		if err := core.ValidateOptions(s.scope, s.opts.withScope(s.scope)...); err != nil {
			return fmt.Errorf("%s options: %w", s.scope, err)
		}
	}

	if _, err := f.encoding(); err != nil {
		return err
	}

	if _, err := f.RemoteOptions(); err != nil {
		return err
	}

	_, err := f.Schema()
	return err
}

func (f *File) encoding() (*core.Encoding, error) {
	if f.Encoding == "" {
		return core.DefaultEncoding(), nil
	}
	return core.LookupEncoding(f.Encoding)
}

// RemoteOptions folds all scopes into the connection and query settings.
func (f *File) RemoteOptions() (*core.RemoteOptions, error) {
	var opts []core.Option
	opts = append(opts, f.Table.withScope(core.ScopeTable)...)
	opts = append(opts, f.Server.withScope(core.ScopeServer)...)
	opts = append(opts, f.UserMapping.withScope(core.ScopeUserMapping)...)

	return core.NewRemoteOptions(opts...)
}

// Schema builds the local attribute layout.
func (f *File) Schema() (*core.Schema, error) {
	if len(f.Columns) < 1 {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrNoColumns)
	}

	defs := make([]core.ColumnDef, len(f.Columns))
	for i, c := range f.Columns {
		defs[i] = c.def()
	}
	return core.NewSchema(defs...)
}

// ComponentOptions returns the options shared by the estimator, the scan
// session and the materializer.
func (f *File) ComponentOptions(logger hclog.Logger) ([]core.ComponentOption, error) {
	enc, err := f.encoding()
	if err != nil {
		return nil, err
	}

	opts := []core.ComponentOption{
		core.WithLogger(logger),
		core.WithEncoding(enc),
	}
	if f.StrictEncoding {
		opts = append(opts, core.WithStrictEncoding())
	}
	if f.RowsColumn != nil {
		opts = append(opts, core.WithRowsColumn(*f.RowsColumn))
	}
	return opts, nil
}

// ForeignTable validates the file and assembles the table around connector.
func (f *File) ForeignTable(connector core.Connector, logger hclog.Logger) (*core.ForeignTable, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	ro, err := f.RemoteOptions()
	if err != nil {
		return nil, err
	}
	schema, err := f.Schema()
	if err != nil {
		return nil, err
	}
	opts, err := f.ComponentOptions(logger.Named(f.Name))
	if err != nil {
		return nil, err
	}

	return core.NewForeignTable(ro, schema, connector, opts...), nil
}
