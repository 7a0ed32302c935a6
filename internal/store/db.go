// Package store holds one repository per entity. Stores speak raw SQL with
// positional parameters and accept the narrowest database capability they
// need, so the same method works against *sqlx.DB, *sqlx.Tx, or a test stub.
package store

import (
	"context"
	"database/sql"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

type Tx interface {
	Execer
	Getter
}
