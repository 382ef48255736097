package adapters

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/kndndrj/mysql-fdw/core"
	"github.com/kndndrj/mysql-fdw/core/builders"
)

// Register connector
func init() {
	_ = register(NewMySQL(), "mysql", "mariadb")
}

// mysqlConfig builds the driver configuration for one remote connection.
func mysqlConfig(opts *core.RemoteOptions, charset string) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = opts.Addr()
	cfg.User = opts.Username
	cfg.Passwd = opts.Password
	cfg.DBName = opts.Database
	cfg.AllowNativePasswords = true
	cfg.Timeout = 30 * time.Second
	if charset != "" {
		cfg.Params = map[string]string{
			"charset": charset,
		}
	}
	return cfg
}

func openMySQL(opts *core.RemoteOptions, charset string) (*sql.DB, error) {
	connector, err := mysql.NewConnector(mysqlConfig(opts, charset))
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// bitProcessor renders BIT(n) values as binary digits.
func bitProcessor(val any) []byte {
	if val == nil {
		return nil
	}
	b, ok := val.([]byte)
	if !ok {
		return []byte(fmt.Sprint(val))
	}

	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	return []byte(strconv.FormatUint(n, 2))
}

// NewMySQL returns the MySQL connector.
func NewMySQL() *builders.Connector {
	return newMySQL(openMySQL)
}

func newMySQL(open builders.OpenFunc) *builders.Connector {
	return builders.NewConnector(open,
		builders.WithCustomTypeProcessor("bit", bitProcessor),
	)
}
