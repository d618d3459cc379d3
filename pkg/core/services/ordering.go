package services

import (
	"fmt"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

// checkBatch rejects empty batches and batches naming an id twice. Order
// values are taken as given; they need not be contiguous.
func checkBatch(field string, items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.FieldError(field, fmt.Sprintf("the %s field is required", field))
	}
	seen := make(map[int64]struct{}, len(items))
	for i, item := range items {
		if item.ID <= 0 {
			return domain.FieldError(fmt.Sprintf("%s.%d.id", field, i), "the id must be a positive integer")
		}
		if _, dup := seen[item.ID]; dup {
			return domain.FieldError(fmt.Sprintf("%s.%d.id", field, i), "the id appears more than once")
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
