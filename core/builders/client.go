package builders

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kndndrj/mysql-fdw/core"
)

// Client is the database/sql client used by specific adapters.
type Client struct {
	db             *sql.DB
	typeProcessors map[string]func(any) []byte
}

func NewClient(db *sql.DB, opts ...ClientOption) *Client {
	config := clientConfig{
		typeProcessors: make(map[string]func(any) []byte),
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		db:             db,
		typeProcessors: config.typeProcessors,
	}
}

// Conn takes a dedicated connection from the pool.
func (c *Client) Conn(ctx context.Context) (*Conn, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return &Conn{
		conn:           conn,
		typeProcessors: c.typeProcessors,
	}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

var _ core.RemoteConn = (*Conn)(nil)

// Conn is a single connection to execute on.
type Conn struct {
	conn           *sql.Conn
	typeProcessors map[string]func(any) []byte
	onClose        func() error
}

// Close closes the connection and then runs the close callback, if any.
func (c *Conn) Close() error {
	err := c.conn.Close()
	if c.onClose != nil {
		if cerr := c.onClose(); err == nil {
			err = cerr
		}
		c.onClose = nil
	}
	return err
}

func (c *Conn) getTypeProcessor(typ string) func(any) []byte {
	if proc, ok := c.typeProcessors[strings.ToLower(typ)]; ok {
		return proc
	}
	return toRaw
}

// toRaw renders a scanned value as field bytes. nil stays nil (NULL) and
// empty values come back as empty, non-nil slices.
func toRaw(val any) []byte {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		return append([]byte{}, v...)
	case string:
		return append([]byte{}, v...)
	case int64:
		return strconv.AppendInt([]byte{}, v, 10)
	case uint64:
		return strconv.AppendUint([]byte{}, v, 10)
	case float64:
		return strconv.AppendFloat([]byte{}, v, 'g', -1, 64)
	case float32:
		return strconv.AppendFloat([]byte{}, float64(v), 'g', -1, 32)
	case bool:
		if v {
			return []byte("1")
		}
		return []byte("0")
	case time.Time:
		return []byte(v.Format("2006-01-02 15:04:05.999999"))
	default:
		return []byte(fmt.Sprint(v))
	}
}

// Query executes a query and stores the complete result set.
func (c *Conn) Query(ctx context.Context, query string) (core.RemoteResult, error) {
	dbRows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer dbRows.Close()

	header, err := dbRows.Columns()
	if err != nil {
		return nil, err
	}

	dbCols, err := dbRows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	procs := make([]func(any) []byte, len(dbCols))
	for i, col := range dbCols {
		procs[i] = c.getTypeProcessor(col.DatabaseTypeName())
	}

	var rows [][][]byte
	for dbRows.Next() {
		columns := make([]any, len(header))
		columnPointers := make([]any, len(header))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := dbRows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		row := make([][]byte, len(header))
		for i := range columns {
			row[i] = procs[i](columns[i])
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, err
	}

	return NewResultBuilder().
		WithHeader(header).
		WithRows(rows).
		Build(), nil
}
