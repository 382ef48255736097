package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/attribute"
)

// ScanSession owns the remote connection and the stored result set of a
// single table scan, including any number of rescans.
//
// The query runs once, lazily on the first Next, and its complete result
// is buffered so a rescan only moves the cursor back to the first row.
type ScanSession struct {
	id        string
	connector Connector
	encoding  *Encoding
	log       hclog.Logger
	metrics   *scanMetrics

	state     SessionState
	conn      RemoteConn
	result    RemoteResult
	query     string
	ownsQuery bool
	// numFields is set on execution and never changes afterwards.
	numFields int
}

func NewScanSession(connector Connector, opts ...ComponentOption) *ScanSession {
	cfg := newComponentConfig(opts...)
	id := uuid.New().String()

	return &ScanSession{
		id:        id,
		connector: connector,
		encoding:  cfg.encoding,
		log:       cfg.log.Named("session").With("session", id),
		metrics:   newScanMetrics(),
		state:     SessionStateIdle,
	}
}

func (s *ScanSession) ID() string {
	return s.id
}

func (s *ScanSession) State() SessionState {
	return s.state
}

// Query returns the statement the session executes.
func (s *ScanSession) Query() string {
	return s.query
}

// NumFields returns the remote field count, 0 before execution.
func (s *ScanSession) NumFields() int {
	return s.numFields
}

// Open connects to the remote server and resolves the query text.
func (s *ScanSession) Open(ctx context.Context, opts *RemoteOptions) (err error) {
	switch s.state {
	case SessionStateIdle:
	case SessionStateClosed:
		return ErrSessionClosed
	default:
		return fmt.Errorf("scan session already %s", s.state)
	}

	ctx, span := startSpan(ctx, "ScanSession.Open",
		attribute.String("mysql.address", opts.Address),
		attribute.String("session", s.id))
	defer func() { endSpan(span, err) }()

	conn, err := s.connector.Connect(ctx, opts, s.encoding.Charset)
	if err != nil {
		return wrapRemote(ErrConnect, err)
	}

	s.conn = conn
	s.query = opts.EffectiveQuery()
	s.ownsQuery = opts.Query == ""
	s.state = SessionStateConnected

	s.log.Debug("connected", "address", opts.Address, "port", opts.Port, "query", s.query)
	return nil
}

// Next returns the next remote row, or nil at end of data. The first call
// executes the query and stores the whole result set.
func (s *ScanSession) Next(ctx context.Context) (*RemoteRow, error) {
	switch s.state {
	case SessionStateIdle:
		return nil, ErrSessionNotOpen
	case SessionStateClosed:
		return nil, ErrSessionClosed
	case SessionStateConnected:
		if err := s.execute(ctx); err != nil {
			return nil, err
		}
	}

	row := s.result.FetchRow()
	if row != nil {
		s.metrics.rowFetched()
	}
	return row, nil
}

func (s *ScanSession) execute(ctx context.Context) (err error) {
	ctx, span := startSpan(ctx, "ScanSession.Execute", attribute.String("session", s.id))
	defer func() { endSpan(span, err) }()

	s.metrics.remoteQuery("scan")

	result, err := s.conn.Query(ctx, s.query)
	if err != nil {
		// the session cannot continue; release the connection right away
		_ = s.Close()
		return wrapRemote(ErrQuery, err)
	}

	s.result = result
	s.numFields = result.NumFields()
	s.state = SessionStateExecuting

	s.log.Debug("query executed", "fields", s.numFields, "rows", result.NumRows())
	return nil
}

// Rescan rewinds the stored result set to its first row. It does nothing
// when the query has not been executed yet.
func (s *ScanSession) Rescan() {
	if s.state != SessionStateExecuting {
		return
	}
	s.result.Seek(0)
	s.log.Trace("rewound result set")
}

// Close releases the result set and the connection. Every resource is
// released at most once; repeated calls are no-ops.
func (s *ScanSession) Close() error {
	var err error

	if s.result != nil {
		s.result.Free()
		s.result = nil
	}
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	if s.ownsQuery {
		s.query = ""
		s.ownsQuery = false
	}

	if s.state != SessionStateClosed {
		s.log.Debug("closed", "previous_state", s.state.String())
	}
	s.state = SessionStateClosed

	return err
}
