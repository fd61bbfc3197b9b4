package credentials

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// DefaultEnvPrefix is used by EnvStore when Prefix is empty.
const DefaultEnvPrefix = "DB_"

// EnvStore reads <Prefix>HOST, <Prefix>PORT, <Prefix>USER and
// <Prefix>PASSWORD. It never writes to the environment.
type EnvStore struct {
	Prefix string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (e EnvStore) Lookup(context.Context) (Credentials, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	host, ok := lookup(prefix + "HOST")
	if !ok || host == "" {
		return Credentials{}, fmt.Errorf("%w: %sHOST is not set", ErrNotFound, prefix)
	}
	c := Credentials{Host: host}
	c.User, _ = lookup(prefix + "USER")
	c.Password, _ = lookup(prefix + "PASSWORD")
	if p, ok := lookup(prefix + "PORT"); ok && p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Credentials{}, fmt.Errorf("credentials: bad %sPORT %q", prefix, p)
		}
		c.Port = n
	}
	return c, nil
}
