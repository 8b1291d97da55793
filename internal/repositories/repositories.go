package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/mfx/internal/shared"
)

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// notFound maps [sql.ErrNoRows] to [shared.ErrNotFound], leaving other errors wrapped as-is.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, what)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
