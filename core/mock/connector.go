package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kndndrj/mysql-fdw/core"
)

var _ core.Connector = (*Connector)(nil)

// Connector serves registered results and records how it was used.
type Connector struct {
	config *connectorConfig

	mu       sync.Mutex
	connects int
	charsets []string
	conns    []*Conn
}

func NewConnector(opts ...ConnectorOption) *Connector {
	config := &connectorConfig{
		results:          make(map[string]*Result),
		queryErrors:      make(map[string]error),
		querySideEffects: make(map[string]func(context.Context) error),
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Connector{
		config: config,
	}
}

func (c *Connector) Connect(_ context.Context, _ *core.RemoteOptions, charset string) (core.RemoteConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connects++
	c.charsets = append(c.charsets, charset)

	if c.config.connectErr != nil {
		return nil, c.config.connectErr
	}

	conn := &Conn{config: c.config}
	c.conns = append(c.conns, conn)
	return conn, nil
}

// Connects returns the number of Connect calls.
func (c *Connector) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

// Charsets returns the charset requested by each Connect call.
func (c *Connector) Charsets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.charsets...)
}

// Conns returns every connection handed out so far.
func (c *Connector) Conns() []*Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Conn{}, c.conns...)
}

var _ core.RemoteConn = (*Conn)(nil)

type Conn struct {
	config  *connectorConfig
	queries []string
	closed  int
}

func (c *Conn) Query(ctx context.Context, query string) (core.RemoteResult, error) {
	c.queries = append(c.queries, query)

	eff, ok := c.config.querySideEffects[query]
	if ok {
		err := eff(ctx)
		if err != nil {
			return nil, fmt.Errorf("side effect error: %w", err)
		}
	}

	if err, ok := c.config.queryErrors[query]; ok {
		return nil, err
	}

	result, ok := c.config.results[query]
	if !ok {
		return nil, fmt.Errorf("no result registered for query: %s", query)
	}

	result.cursor = 0
	return result, nil
}

func (c *Conn) Close() error {
	c.closed++
	return nil
}

// Queries returns the statements executed on the connection.
func (c *Conn) Queries() []string {
	return c.queries
}

// Closed returns the number of Close calls.
func (c *Conn) Closed() int {
	return c.closed
}
