package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lingocards/lingo-api/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MapError maps a SQLite error to the matching store error, wrapping the
// original. Unknown errors are returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case int(sqlite3.SQLITE_CONSTRAINT_UNIQUE), int(sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY):
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case int(sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY):
			return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
		case int(sqlite3.SQLITE_CONSTRAINT_CHECK):
			return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
		case int(sqlite3.SQLITE_CONSTRAINT_NOTNULL):
			return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
		}
		if code&0xff == int(sqlite3.SQLITE_CONSTRAINT) {
			return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
		}
	}

	return err
}

// checkRowsAffected returns notFound when a statement touched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
