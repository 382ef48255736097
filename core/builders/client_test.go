package builders_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/mysql-fdw/core"
	"github.com/kndndrj/mysql-fdw/core/builders"
)

// setupConnector returns a connector handing out the sqlmock database.
func setupConnector(t *testing.T, opts ...builders.ClientOption) (*builders.Connector, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	open := func(*core.RemoteOptions, string) (*sql.DB, error) {
		return db, nil
	}

	return builders.NewConnector(open, opts...), mock
}

func drain(result core.RemoteResult) [][][]byte {
	var rows [][][]byte
	for row := result.FetchRow(); row != nil; row = result.FetchRow() {
		rows = append(rows, row.Fields)
	}
	return rows
}

func TestConn_Query(t *testing.T) {
	r := require.New(t)

	connector, mock := setupConnector(t)

	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	mock.ExpectQuery("SELECT * FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "note", "score", "active", "created"}).
			AddRow(int64(1), "john", nil, float64(1.5), true, ts).
			AddRow(int64(2), "", []byte{}, float64(-2), false, nil))
	mock.ExpectClose()

	conn, err := connector.Connect(context.Background(), &core.RemoteOptions{}, "utf8mb4")
	r.NoError(err)

	result, err := conn.Query(context.Background(), "SELECT * FROM users")
	r.NoError(err)

	r.Equal([]string{"id", "name", "note", "score", "active", "created"}, result.Fields())
	r.Equal(6, result.NumFields())
	r.Equal(2, result.NumRows())

	rows := drain(result)
	r.Equal([][][]byte{
		{[]byte("1"), []byte("john"), nil, []byte("1.5"), []byte("1"), []byte("2024-05-06 07:08:09")},
		{[]byte("2"), {}, {}, []byte("-2"), []byte("0"), nil},
	}, rows)

	// empty strings are not NULL
	r.NotNil(rows[1][1])
	r.NotNil(rows[1][2])

	result.Seek(0)
	r.Equal(rows, drain(result))

	result.Seek(1)
	r.Len(drain(result), 1)

	result.Free()
	result.Free()
	r.Nil(result.FetchRow())

	r.NoError(conn.Close())
	r.NoError(mock.ExpectationsWereMet())
}

func TestConn_Query_Error(t *testing.T) {
	r := require.New(t)

	connector, mock := setupConnector(t)

	queryErr := errors.New("You have an error in your SQL syntax")
	mock.ExpectQuery("SELEC 1").WillReturnError(queryErr)
	mock.ExpectClose()

	conn, err := connector.Connect(context.Background(), &core.RemoteOptions{}, "utf8mb4")
	r.NoError(err)

	result, err := conn.Query(context.Background(), "SELEC 1")
	r.Nil(result)
	r.ErrorIs(err, queryErr)

	r.NoError(conn.Close())
	r.NoError(mock.ExpectationsWereMet())
}

func TestConn_Query_RowError(t *testing.T) {
	connector, mock := setupConnector(t)

	rowErr := errors.New("connection lost")
	mock.ExpectQuery("SELECT id FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(int64(1)).
			AddRow(int64(2)).
			RowError(1, rowErr))

	conn, err := connector.Connect(context.Background(), &core.RemoteOptions{}, "utf8mb4")
	require.NoError(t, err)

	_, err = conn.Query(context.Background(), "SELECT id FROM t")
	assert.ErrorIs(t, err, rowErr)
}

func TestConn_Query_TypeProcessor(t *testing.T) {
	r := require.New(t)

	connector, mock := setupConnector(t,
		builders.WithCustomTypeProcessor("BIT", func(v any) []byte { return []byte("processed") }),
		// first registration wins
		builders.WithCustomTypeProcessor("bit", func(v any) []byte { return nil }),
	)

	mock.ExpectQuery("SELECT flags, name FROM t").
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("flags").OfType("BIT", []byte{}),
			sqlmock.NewColumn("name").OfType("VARCHAR", ""),
		).AddRow([]byte{0x05}, "x"))

	conn, err := connector.Connect(context.Background(), &core.RemoteOptions{}, "utf8mb4")
	r.NoError(err)

	result, err := conn.Query(context.Background(), "SELECT flags, name FROM t")
	r.NoError(err)

	r.Equal([][][]byte{{[]byte("processed"), []byte("x")}}, drain(result))
}

func TestConnector_Connect_Errors(t *testing.T) {
	openErr := errors.New("invalid DSN")
	connector := builders.NewConnector(func(*core.RemoteOptions, string) (*sql.DB, error) {
		return nil, openErr
	})

	_, err := connector.Connect(context.Background(), &core.RemoteOptions{}, "utf8mb4")
	assert.ErrorIs(t, err, core.ErrClientInit)
	assert.ErrorIs(t, err, openErr)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, db.Close())

	connector = builders.NewConnector(func(*core.RemoteOptions, string) (*sql.DB, error) {
		return db, nil
	})

	_, err = connector.Connect(context.Background(), &core.RemoteOptions{}, "utf8mb4")
	assert.ErrorIs(t, err, core.ErrConnect)
	assert.ErrorContains(t, err, "database is closed")
}

func TestResultBuilder(t *testing.T) {
	r := require.New(t)

	freed := 0
	result := builders.NewResultBuilder().
		WithHeader([]string{"a"}).
		WithRows([][][]byte{{[]byte("1")}, {nil}}).
		WithFreeFunc(func() { freed++ }).
		Build()

	r.Equal(2, result.NumRows())
	r.Equal([]byte("1"), result.FetchRow().Fields[0])
	r.True(result.FetchRow().IsNull(0))
	r.Nil(result.FetchRow())

	result.Seek(-5)
	r.NotNil(result.FetchRow())
	result.Seek(10)
	r.Nil(result.FetchRow())

	result.Free()
	result.Free()
	r.Equal(1, freed)
	r.Zero(result.NumRows())
}
