package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

// reorder applies a flat batch of order values. ownedQuery counts how many of
// the batch ids belong to userID (it takes userID followed by the ids); when
// any id is missing, nothing is written. Rows outside the batch keep their
// order.
func (s *Store) reorder(ctx context.Context, userID int64, items []domain.OrderItem, ownedQuery, updateQuery string) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		args := make([]any, 0, len(ids)+1)
		args = append(args, userID)
		for _, id := range ids {
			args = append(args, id)
		}

		var owned int
		query := fmt.Sprintf(ownedQuery, placeholders(len(ids)))
		if err := tx.QueryRowContext(ctx, s.q(query), args...).Scan(&owned); err != nil {
			return err
		}
		if owned != len(ids) {
			return domain.ErrNotFound
		}

		now := s.now()
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, s.q(updateQuery), item.Order, now, item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
