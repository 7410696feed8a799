package sqlite

import (
	"database/sql"

	"github.com/northmarket/bazaar/internal/market/store"
)

// requireRowAffected turns a zero-row mutation into ErrNotFound so callers
// learn the target id did not exist.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
