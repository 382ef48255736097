package builders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kndndrj/mysql-fdw/core"
)

// OpenFunc creates the database handle for one remote connection.
type OpenFunc func(opts *core.RemoteOptions, charset string) (*sql.DB, error)

var _ core.Connector = (*Connector)(nil)

// Connector opens one database handle per connection, limited to a single
// physical connection, and closes it together with the connection.
type Connector struct {
	open OpenFunc
	opts []ClientOption
}

func NewConnector(open OpenFunc, opts ...ClientOption) *Connector {
	return &Connector{
		open: open,
		opts: opts,
	}
}

func (c *Connector) Connect(ctx context.Context, opts *core.RemoteOptions, charset string) (core.RemoteConn, error) {
	db, err := c.open(opts, charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrClientInit, err)
	}
	db.SetMaxOpenConns(1)

	client := NewClient(db, c.opts...)

	conn, err := client.Conn(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrConnect, err)
	}
	conn.onClose = client.Close

	return conn, nil
}
