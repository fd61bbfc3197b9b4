package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads the first row of the table
//
//	access(url TEXT, port INTEGER, user TEXT, pass TEXT)
//
// from a SQLite file. A missing file, table or row is ErrNotFound.
type SQLiteStore struct {
	Path string
}

func (s SQLiteStore) Lookup(ctx context.Context) (Credentials, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("%w: %s does not exist", ErrNotFound, s.Path)
		}
		return Credentials{}, fmt.Errorf("credentials: stat %s: %w", s.Path, err)
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials: open %s: %w", s.Path, err)
	}
	defer db.Close()

	var host, port, user, pass sql.NullString
	err = db.QueryRowContext(ctx, `SELECT url, port, user, pass FROM access LIMIT 1`).Scan(&host, &port, &user, &pass)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Credentials{}, fmt.Errorf("%w: %s has no access rows", ErrNotFound, s.Path)
	case err != nil && strings.Contains(err.Error(), "no such table"):
		return Credentials{}, fmt.Errorf("%w: %s has no access table", ErrNotFound, s.Path)
	case err != nil:
		return Credentials{}, fmt.Errorf("credentials: query %s: %w", s.Path, err)
	}

	c := Credentials{Host: strings.TrimSpace(host.String), User: user.String, Password: pass.String}
	if p := strings.TrimSpace(port.String); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Credentials{}, fmt.Errorf("credentials: bad port %q in %s", p, s.Path)
		}
		c.Port = n
	}
	if c.Host == "" {
		return Credentials{}, fmt.Errorf("%w: %s has an empty url", ErrNotFound, s.Path)
	}
	return c, nil
}
