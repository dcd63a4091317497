// Package store opens the settings store named by a DSN.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/store/postgres"
	"github.com/ChrisMcGann/Curtain/pkg/store/sqlite"
)

// Store persists settings records by key.
type Store interface {
	Load(ctx context.Context, key string) (core.Settings, bool, error)
	Save(ctx context.Context, key string, s core.Settings) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*postgres.Store)(nil)
)

// Open opens the store for dsn. "postgres://" and "postgresql://" DSNs use
// Postgres; "sqlite://path" or a bare path uses a SQLite file.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("store dsn required")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
