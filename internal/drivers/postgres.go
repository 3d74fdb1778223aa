package drivers

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresDriver probes PostgreSQL authentication using jackc/pgx.
type PostgresDriver struct{}

func (d *PostgresDriver) Name() string {
	return "postgres"
}

func (d *PostgresDriver) DefaultPort() int {
	return 5432
}

func (d *PostgresDriver) Connect(ctx context.Context, host string, port int, username, password string, timeout time.Duration) (bool, error) {
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(username, password),
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/postgres",
	}
	q := u.Query()
	q.Set("sslmode", "prefer")
	q.Set("connect_timeout", strconv.Itoa(secs))
	u.RawQuery = q.Encode()

	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := pgx.Connect(connCtx, u.String())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// SQLSTATE class 28 is invalid authorization: the server is up
			// and said no.
			if strings.HasPrefix(pgErr.Code, "28") {
				return false, nil
			}
			// 3D000 means the login succeeded but the maintenance database
			// is missing; the credentials are valid.
			if pgErr.Code == "3D000" {
				return true, nil
			}
			return false, nil
		}
		return false, unreachable("postgres: %v", err)
	}
	_ = conn.Close(ctx)

	return true, nil
}
