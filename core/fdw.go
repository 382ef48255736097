package core

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ForeignTable ties a remote table to its local layout and drives the
// host lifecycle: plan, begin, iterate, rescan, explain and end.
type ForeignTable struct {
	options   *RemoteOptions
	schema    *Schema
	connector Connector
	opts      []ComponentOption
	log       hclog.Logger
}

func NewForeignTable(options *RemoteOptions, schema *Schema, connector Connector, opts ...ComponentOption) *ForeignTable {
	cfg := newComponentConfig(opts...)

	return &ForeignTable{
		options:   options,
		schema:    schema,
		connector: connector,
		opts:      opts,
		log:       cfg.log,
	}
}

func (t *ForeignTable) Options() *RemoteOptions {
	return t.options
}

func (t *ForeignTable) Schema() *Schema {
	return t.schema
}

// Plan estimates the scan through a short-lived connection of its own.
func (t *ForeignTable) Plan(ctx context.Context) (*Plan, error) {
	plan, err := NewEstimator(t.connector, t.opts...).Estimate(ctx, t.options)
	if err != nil {
		return nil, fmt.Errorf("Estimator.Estimate: %w", err)
	}
	return plan, nil
}

// Begin opens a scan with its own connection.
func (t *ForeignTable) Begin(ctx context.Context) (*Scan, error) {
	session := NewScanSession(t.connector, t.opts...)
	if err := session.Open(ctx, t.options); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("ScanSession.Open: %w", err)
	}

	return &Scan{
		table:   t,
		session: session,
		mat:     NewMaterializer(t.schema, t.opts...),
	}, nil
}

// Scan is one running scan of a foreign table.
type Scan struct {
	table   *ForeignTable
	session *ScanSession
	mat     *Materializer
}

func (s *Scan) Session() *ScanSession {
	return s.session
}

// Iterate returns the next tuple, or nil when the scan is exhausted. Any
// error ends the scan and releases its connection.
func (s *Scan) Iterate(ctx context.Context) (*Tuple, error) {
	row, err := s.session.Next(ctx)
	if err != nil {
		_ = s.End()
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	if row.Len() != s.session.NumFields() {
		_ = s.End()
		return nil, fmt.Errorf("%w: row has %d fields, result set has %d",
			ErrSchemaMismatch, row.Len(), s.session.NumFields())
	}

	tuple, err := s.mat.Materialize(row)
	if err != nil {
		_ = s.End()
		return nil, err
	}

	return tuple, nil
}

// ReScan restarts the scan from the first stored row without re-executing
// the remote query.
func (s *Scan) ReScan() {
	s.session.Rescan()
}

// Explain reports the startup cost tier and the remote query.
func (s *Scan) Explain(e Explainer, costs bool) {
	query := s.session.Query()
	if query == "" {
		query = s.table.options.EffectiveQuery()
	}
	explainScan(e, s.table.options, query, costs)
}

// End releases the scan. It is safe to call more than once.
func (s *Scan) End() error {
	return s.session.Close()
}
