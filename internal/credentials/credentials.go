// Package credentials supplies database connection credentials to the sink
// and turns them into driver DSNs.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound means the store holds no usable credentials.
var ErrNotFound = errors.New("credentials: not found")

// Credentials identify a database server account.
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Store looks up credentials.
type Store interface {
	Lookup(ctx context.Context) (Credentials, error)
}

// Static is a Store that always returns itself.
type Static Credentials

func (s Static) Lookup(context.Context) (Credentials, error) {
	if s.Host == "" {
		return Credentials{}, ErrNotFound
	}
	return Credentials(s), nil
}

var defaultPorts = map[string]int{"postgres": 5432, "mysql": 3306, "mssql": 1433}

// DSN formats c as a connection string for the storage kind, connecting to
// database. A zero port falls back to the backend's default.
func DSN(kind string, c Credentials, database string) (string, error) {
	if c.Host == "" {
		return "", fmt.Errorf("credentials: empty host")
	}
	port := c.Port
	if port == 0 {
		port = defaultPorts[kind]
	}
	addr := net.JoinHostPort(c.Host, strconv.Itoa(port))

	switch kind {
	case "postgres":
		u := url.URL{Scheme: "postgres", User: url.UserPassword(c.User, c.Password), Host: addr, Path: "/" + database}
		return u.String(), nil
	case "mssql":
		u := url.URL{Scheme: "sqlserver", User: url.UserPassword(c.User, c.Password), Host: addr}
		if database != "" {
			u.RawQuery = url.Values{"database": {database}}.Encode()
		}
		return u.String(), nil
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = database
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	default:
		return "", fmt.Errorf("credentials: cannot build a DSN for storage kind %q", kind)
	}
}

// New returns the store for kind: "sqlite" reads path, "env" reads variables
// under envPrefix, and "none" or "" yields a nil Store.
func New(kind, path, envPrefix string) (Store, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "sqlite":
		return SQLiteStore{Path: path}, nil
	case "env":
		return EnvStore{Prefix: envPrefix}, nil
	default:
		return nil, fmt.Errorf("credentials: unsupported kind %q", kind)
	}
}
