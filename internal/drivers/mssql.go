package drivers

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/url"
	"strconv"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
)

// MSSQLDriver probes Microsoft SQL Server authentication using
// microsoft/go-mssqldb.
type MSSQLDriver struct{}

func (d *MSSQLDriver) Name() string {
	return "mssql"
}

func (d *MSSQLDriver) DefaultPort() int {
	return 1433
}

func (d *MSSQLDriver) Connect(ctx context.Context, host string, port int, username, password string, timeout time.Duration) (bool, error) {
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(username, password),
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	q := u.Query()
	q.Set("dial timeout", strconv.Itoa(secs))
	q.Set("connection timeout", strconv.Itoa(secs))
	u.RawQuery = q.Encode()

	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return false, unreachable("mssql: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		// A server-spoken error (18456 login failed et al.) means the TDS
		// handshake completed; anything else is transport breakage.
		var sqlErr mssql.Error
		if errors.As(err, &sqlErr) {
			return false, nil
		}
		return false, unreachable("mssql: %v", err)
	}

	return true, nil
}
