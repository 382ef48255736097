package core

import "github.com/hashicorp/go-hclog"

type componentConfig struct {
	log        hclog.Logger
	encoding   *Encoding
	rowsColumn int
	strict     bool
}

// ComponentOption configures the estimator, scan sessions and materializers.
type ComponentOption func(*componentConfig)

func newComponentConfig(opts ...ComponentOption) *componentConfig {
	cfg := &componentConfig{
		log:        hclog.NewNullLogger(),
		encoding:   DefaultEncoding(),
		rowsColumn: DefaultRowsColumn,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger hclog.Logger) ComponentOption {
	return func(c *componentConfig) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithEncoding sets the local database encoding. It decides the charset
// requested from the remote server and how text values are verified.
func WithEncoding(enc *Encoding) ComponentOption {
	return func(c *componentConfig) {
		if enc != nil {
			c.encoding = enc
		}
	}
}

// WithRowsColumn sets the zero-based explain column holding the row
// estimate. The default matches the classic explain layout; servers that
// report partitions shift it by one.
func WithRowsColumn(n int) ComponentOption {
	return func(c *componentConfig) {
		if n >= 0 {
			c.rowsColumn = n
		}
	}
}

// WithStrictEncoding makes invalid byte sequences fail the scan instead of
// being stored as NULL.
func WithStrictEncoding() ComponentOption {
	return func(c *componentConfig) {
		c.strict = true
	}
}
