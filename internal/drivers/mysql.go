package drivers

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDriver probes MySQL authentication using go-sql-driver/mysql.
type MySQLDriver struct{}

func (d *MySQLDriver) Name() string {
	return "mysql"
}

func (d *MySQLDriver) DefaultPort() int {
	return 3306
}

func (d *MySQLDriver) Connect(ctx context.Context, host string, port int, username, password string, timeout time.Duration) (bool, error) {
	cfg := mysql.NewConfig()
	cfg.User = username
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.Timeout = timeout
	cfg.ReadTimeout = timeout
	cfg.WriteTimeout = timeout
	cfg.AllowNativePasswords = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return false, unreachable("mysql: %v", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		// A MySQLError means the server completed the wire handshake and
		// answered; ER_ACCESS_DENIED and friends are credential rejections.
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) {
			return false, nil
		}
		return false, unreachable("mysql: %v", err)
	}

	return true, nil
}
