package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/mysql-fdw/core/mock"
)

func TestMux_GetConnector(t *testing.T) {
	r := require.New(t)
	mux := new(Mux)

	mysql, err := mux.GetConnector("mysql")
	r.NoError(err)

	mariadb, err := mux.GetConnector("MariaDB")
	r.NoError(err)
	r.Same(mysql, mariadb)

	def, err := mux.GetConnector("")
	r.NoError(err)
	r.Same(mysql, def)

	_, err = mux.GetConnector("postgres")
	r.ErrorIs(err, ErrUnsupportedTypeAlias)

	r.Contains(mux.Types(), "mysql")
	r.Contains(mux.Types(), "mariadb")
}

func TestMux_AddConnector(t *testing.T) {
	mux := new(Mux)
	connector := mock.NewConnector()

	require.NoError(t, mux.AddConnector("test-mock", connector))

	got, err := mux.GetConnector("test-mock")
	require.NoError(t, err)
	assert.Same(t, connector, got)

	assert.ErrorIs(t, register(connector), errNoValidTypeAliases)
	assert.ErrorIs(t, register(connector, ""), errNoValidTypeAliases)
}
