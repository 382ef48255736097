package core

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/attribute"
)

// Cost is an approximate planner cost.
type Cost float64

// CostTier tells whether the server was treated as local or remote.
type CostTier int

const (
	CostTierLocal CostTier = iota
	CostTierRemote
)

func (t CostTier) String() string {
	if t == CostTierLocal {
		return "local"
	}
	return "remote"
}

const (
	LocalStartupCost  Cost = 10
	RemoteStartupCost Cost = 25

	// DefaultRowsColumn is where the classic MySQL explain output reports
	// its row estimate (the 9th column). This is an assumption about the
	// server's explain layout, not a contract.
	DefaultRowsColumn = 8
)

// StartupCost picks the startup cost from the server address alone:
// loopback literals are cheap, everything else is not.
func StartupCost(opts *RemoteOptions) (Cost, CostTier) {
	if opts.IsLocal() {
		return LocalStartupCost, CostTierLocal
	}
	return RemoteStartupCost, CostTierRemote
}

// Plan holds the numbers handed to the planner.
type Plan struct {
	// Rows is both the estimated cardinality and the per-row cost proxy.
	Rows        float64
	StartupCost Cost
	TotalCost   Cost
	Tier        CostTier
}

// Estimator asks the remote server to explain the scan query and sums the
// row estimates of every explain row. The sum over sub-plans is a rough
// heuristic, not a selectivity estimate.
type Estimator struct {
	connector  Connector
	encoding   *Encoding
	rowsColumn int
	log        hclog.Logger
	metrics    *scanMetrics
}

func NewEstimator(connector Connector, opts ...ComponentOption) *Estimator {
	cfg := newComponentConfig(opts...)

	return &Estimator{
		connector:  connector,
		encoding:   cfg.encoding,
		rowsColumn: cfg.rowsColumn,
		log:        cfg.log.Named("estimator"),
		metrics:    newScanMetrics(),
	}
}

// Estimate opens a short-lived connection, runs the explain query and
// closes the connection again, whatever the outcome. Zero rows is a valid
// estimate.
func (e *Estimator) Estimate(ctx context.Context, opts *RemoteOptions) (plan *Plan, err error) {
	ctx, span := startSpan(ctx, "Estimator.Estimate",
		attribute.String("mysql.address", opts.Address),
		attribute.Int("mysql.port", opts.Port))
	defer func() { endSpan(span, err) }()

	startup, tier := StartupCost(opts)

	conn, err := e.connector.Connect(ctx, opts, e.encoding.Charset)
	if err != nil {
		return nil, wrapRemote(ErrConnect, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			e.log.Debug("closing estimator connection failed", "error", cerr)
		}
	}()

	query := opts.ExplainQuery()
	e.metrics.remoteQuery("explain")

	result, err := conn.Query(ctx, query)
	if err != nil {
		return nil, wrapRemote(ErrQuery, err)
	}
	defer result.Free()

	if result.NumFields() <= e.rowsColumn {
		return nil, fmt.Errorf("%w: explain output has %d columns, expected the row estimate in column %d",
			ErrQuery, result.NumFields(), e.rowsColumn+1)
	}

	var rows float64
	for row := result.FetchRow(); row != nil; row = result.FetchRow() {
		rows += parseEstimate(row.Fields[e.rowsColumn])
	}

	e.log.Debug("estimated remote scan", "query", query, "rows", rows, "startup_cost", startup, "tier", tier.String())

	return &Plan{
		Rows:        rows,
		StartupCost: startup,
		TotalCost:   Cost(rows) + startup,
		Tier:        tier,
	}, nil
}

var numericPrefix = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// parseEstimate reads the leading number of an explain value. NULL and
// non-numeric values count as zero.
func parseEstimate(raw []byte) float64 {
	if raw == nil {
		return 0
	}
	m := numericPrefix.Find(raw)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(m)), 64)
	if err != nil {
		return 0
	}
	return f
}
