package testhelpers

import (
	"context"

	tc "github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/kndndrj/mysql-fdw/adapters"
	"github.com/kndndrj/mysql-fdw/core"
)

type MySQLContainer struct {
	*tcmysql.MySQLContainer
	Host      string
	Port      string
	Connector core.Connector
}

// NewMySQLContainer creates a new MySQL container seeded with the test data
// and returns it together with the MySQL connector.
func NewMySQLContainer(ctx context.Context) (*MySQLContainer, error) {
	seedFile, err := GetTestDataFile("mysql_seed.sql")
	if err != nil {
		return nil, err
	}

	ctr, err := tcmysql.Run(
		ctx,
		"mysql:8.0.36",
		tc.CustomizeRequest(tc.GenericContainerRequest{
			ProviderType: GetContainerProvider(),
		}),
		tcmysql.WithDatabase("dev"),
		tcmysql.WithPassword("password"),
		tcmysql.WithUsername("root"),
		tcmysql.WithScripts(seedFile.Name()),
	)
	if err != nil {
		return nil, err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		return nil, err
	}

	port, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		return nil, err
	}

	connector, err := new(adapters.Mux).GetConnector("mysql")
	if err != nil {
		return nil, err
	}

	return &MySQLContainer{
		MySQLContainer: ctr,
		Host:           host,
		Port:           port.Port(),
		Connector:      connector,
	}, nil
}

// Options returns the server and user mapping options of the container
// followed by the given table options.
func (p *MySQLContainer) Options(table ...core.Option) []core.Option {
	opts := []core.Option{
		{Name: "address", Value: p.Host, Scope: core.ScopeServer},
		{Name: "port", Value: p.Port, Scope: core.ScopeServer},
		{Name: "username", Value: "root", Scope: core.ScopeUserMapping},
		{Name: "password", Value: "password", Scope: core.ScopeUserMapping},
		{Name: "database", Value: "dev", Scope: core.ScopeTable},
	}
	return append(opts, table...)
}

// NewForeignTable builds a foreign table backed by the container.
func (p *MySQLContainer) NewForeignTable(schema *core.Schema, table []core.Option, opts ...core.ComponentOption) (*core.ForeignTable, error) {
	ro, err := core.NewRemoteOptions(p.Options(table...)...)
	if err != nil {
		return nil, err
	}
	return core.NewForeignTable(ro, schema, p.Connector, opts...), nil
}
