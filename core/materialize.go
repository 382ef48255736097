package core

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/kndndrj/mysql-fdw/core/types"
)

// Materializer converts remote rows into tuples laid out by the local schema.
type Materializer struct {
	schema  *Schema
	guard   *EncodingGuard
	strict  bool
	log     hclog.Logger
	metrics *scanMetrics
}

func NewMaterializer(schema *Schema, opts ...ComponentOption) *Materializer {
	cfg := newComponentConfig(opts...)
	logger := cfg.log.Named("materializer")

	return &Materializer{
		schema:  schema,
		guard:   NewEncodingGuard(cfg.encoding, logger),
		strict:  cfg.strict,
		log:     logger,
		metrics: newScanMetrics(),
	}
}

// Materialize fills one tuple slot per schema attribute. Dropped attributes
// are NULL and do not consume a remote field; every other attribute takes
// the next remote field in order.
//
// NULL fields stay NULL, empty fields go through the input function as an
// empty value, and string values with invalid byte sequences become NULL
// (or fail the scan when strict). Input function failures are fatal.
func (m *Materializer) Materialize(row *RemoteRow) (*Tuple, error) {
	if live := m.schema.LiveLen(); row.Len() != live {
		return nil, fmt.Errorf("%w: remote row has %d fields, local table has %d live columns",
			ErrSchemaMismatch, row.Len(), live)
	}

	tuple := newTuple(m.schema.Len())

	x := 0
	for y, attr := range m.schema.Attrs {
		if attr.Dropped {
			m.log.Trace("attribute is dropped", "attnum", y, "name", attr.Name)
			m.metrics.droppedAttribute()
			tuple.setNull(y)
			continue
		}

		raw := row.Fields[x]
		x++

		if raw == nil {
			tuple.setNull(y)
			continue
		}

		if len(raw) > 0 && attr.Category() == types.CategoryString {
			if err := m.guard.Check(attr.Name, raw); err != nil {
				if m.strict {
					return nil, fmt.Errorf("column %q: %w", attr.Name, err)
				}
				tuple.setNull(y)
				continue
			}
		}

		val, err := attr.Input(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %w", ErrConversion, attr.Name, err)
		}
		tuple.set(y, val)
	}

	return tuple, nil
}
