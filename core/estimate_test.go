package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/mysql-fdw/core"
	"github.com/kndndrj/mysql-fdw/core/mock"
)

var explainHeader = []string{"id", "select_type", "table", "type", "possible_keys", "key", "key_len", "ref", "rows", "Extra"}

// explainResult returns classic explain output with the given row estimates.
func explainResult(rows ...*string) *mock.Result {
	var out [][]*string
	for _, n := range rows {
		out = append(out, []*string{
			mock.Str("1"), mock.Str("SIMPLE"), mock.Str("t"), mock.Str("ALL"),
			nil, nil, nil, nil, n, mock.Str(""),
		})
	}
	return mock.NewTextResult(explainHeader, out...)
}

func remoteOptions(t *testing.T, opts ...core.Option) *core.RemoteOptions {
	t.Helper()
	ro, err := core.NewRemoteOptions(opts...)
	require.NoError(t, err)
	return ro
}

func TestEstimator_Estimate(t *testing.T) {
	testCases := []struct {
		name        string
		address     string
		startupCost core.Cost
		tier        core.CostTier
	}{
		{"loopback address", "127.0.0.1", 10, core.CostTierLocal},
		{"localhost", "localhost", 10, core.CostTierLocal},
		{"remote host", "db.example.com", 25, core.CostTierRemote},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)

			result := explainResult(mock.Str("10"), mock.Str("5"), mock.Str("3"))
			connector := mock.NewConnector(
				mock.ConnectorWithResult("EXPLAIN SELECT * FROM t", result),
			)
			ro := remoteOptions(t,
				core.Option{Name: "address", Value: tc.address},
				core.Option{Name: "table", Value: "t"},
			)

			plan, err := core.NewEstimator(connector).Estimate(context.Background(), ro)
			r.NoError(err)

			r.Equal(float64(18), plan.Rows)
			r.Equal(tc.startupCost, plan.StartupCost)
			r.Equal(core.Cost(18)+tc.startupCost, plan.TotalCost)
			r.Equal(tc.tier, plan.Tier)

			// short-lived connection, closed and freed exactly once
			r.Equal(1, connector.Connects())
			r.Equal([]string{"utf8mb4"}, connector.Charsets())
			r.Len(connector.Conns(), 1)
			r.Equal([]string{"EXPLAIN SELECT * FROM t"}, connector.Conns()[0].Queries())
			r.Equal(1, connector.Conns()[0].Closed())
			r.Equal(1, result.Freed())
		})
	}
}

func TestEstimator_Estimate_ZeroRows(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(
		mock.ConnectorWithResult("EXPLAIN SELECT 1", explainResult()),
	)
	ro := remoteOptions(t, core.Option{Name: "query", Value: "SELECT 1"})

	plan, err := core.NewEstimator(connector).Estimate(context.Background(), ro)
	r.NoError(err)

	r.Zero(plan.Rows)
	r.Equal(core.LocalStartupCost, plan.TotalCost)
}

func TestEstimator_Estimate_UnparsableValues(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(
		mock.ConnectorWithResult("EXPLAIN SELECT * FROM t",
			explainResult(nil, mock.Str("abc"), mock.Str("12abc"), mock.Str(" 2.5"))),
	)
	ro := remoteOptions(t, core.Option{Name: "table", Value: "t"})

	plan, err := core.NewEstimator(connector).Estimate(context.Background(), ro)
	r.NoError(err)

	r.Equal(14.5, plan.Rows)
}

func TestEstimator_Estimate_RowsColumn(t *testing.T) {
	// newer servers report partitions before rows
	header := []string{"id", "select_type", "table", "partitions", "type", "possible_keys", "key", "key_len", "ref", "rows", "filtered", "Extra"}
	row := []*string{mock.Str("1"), mock.Str("SIMPLE"), mock.Str("t"), nil, mock.Str("ALL"), nil, nil, nil, nil, mock.Str("7"), mock.Str("100.00"), nil}

	testCases := []struct {
		name     string
		opts     []core.ComponentOption
		expected float64
	}{
		{name: "default column reads ref", expected: 0},
		{name: "rows column 9", opts: []core.ComponentOption{core.WithRowsColumn(9)}, expected: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)

			connector := mock.NewConnector(mock.ConnectorWithResult("EXPLAIN SELECT * FROM t", mock.NewTextResult(header, row)))
			ro := remoteOptions(t, core.Option{Name: "table", Value: "t"})

			plan, err := core.NewEstimator(connector, tc.opts...).Estimate(context.Background(), ro)
			r.NoError(err)
			r.Equal(tc.expected, plan.Rows)
			r.Equal(tc.expected+float64(core.LocalStartupCost), float64(plan.TotalCost))
		})
	}
}

func TestEstimator_Estimate_Errors(t *testing.T) {
	remoteErr := errors.New("Access denied for user 'root'@'10.0.0.2'")

	testCases := []struct {
		name     string
		opts     []mock.ConnectorOption
		category error
		closed   int
	}{
		{
			name:     "connect",
			opts:     []mock.ConnectorOption{mock.ConnectorWithConnectError(remoteErr)},
			category: core.ErrConnect,
		},
		{
			name:     "query",
			opts:     []mock.ConnectorOption{mock.ConnectorWithQueryError("EXPLAIN SELECT * FROM t", remoteErr)},
			category: core.ErrQuery,
			closed:   1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			connector := mock.NewConnector(tc.opts...)
			ro := remoteOptions(t, core.Option{Name: "table", Value: "t"})

			plan, err := core.NewEstimator(connector).Estimate(context.Background(), ro)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tc.category)
			assert.ErrorIs(t, err, remoteErr)
			assert.ErrorContains(t, err, "Access denied")

			for _, conn := range connector.Conns() {
				assert.Equal(t, tc.closed, conn.Closed())
			}
		})
	}
}

func TestEstimator_Estimate_NarrowExplain(t *testing.T) {
	result := mock.NewTextResult([]string{"id", "rows"}, []*string{mock.Str("1"), mock.Str("100")})
	connector := mock.NewConnector(mock.ConnectorWithResult("EXPLAIN SELECT * FROM t", result))
	ro := remoteOptions(t, core.Option{Name: "table", Value: "t"})

	_, err := core.NewEstimator(connector).Estimate(context.Background(), ro)
	assert.ErrorIs(t, err, core.ErrQuery)
	assert.Equal(t, 1, result.Freed())
	assert.Equal(t, 1, connector.Conns()[0].Closed())
}
