package repository

import (
	"context"
	"fmt"

	courseModels "examprep/models/course"
	"examprep/ordering"

	"gorm.io/gorm"
)

// UpdateOrder applies one reorder bucket in a single transaction. A bucket must list every
// item of its type in scope exactly once, with distinct order values.
func (s *Store) UpdateOrder(ctx context.Context, b ordering.Bucket) error {
	scope, err := parseID(b.Scope)
	if err != nil {
		return err
	}
	model, scopeColumn, err := orderTarget(b.Type)
	if err != nil {
		return err
	}

	ids := make([]uint, len(b.Entries))
	seenIDs := make(map[uint]bool, len(b.Entries))
	seenOrders := make(map[int]bool, len(b.Entries))
	for i, e := range b.Entries {
		id, err := parseID(e.ID)
		if err != nil {
			return err
		}
		if seenIDs[id] {
			return fmt.Errorf("%w: %s %d listed twice", ErrDuplicateOrder, b.Type, id)
		}
		if seenOrders[e.Order] {
			return fmt.Errorf("%w: order %d used twice", ErrDuplicateOrder, e.Order)
		}
		seenIDs[id], seenOrders[e.Order] = true, true
		ids[i] = id
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, e := range b.Entries {
			res := tx.Model(model).
				Where("id = ? AND "+scopeColumn+" = ? AND is_deleted = ?", ids[i], scope, false).
				Update("order_index", e.Order)
			if res.Error != nil {
				return fmt.Errorf("update %s %d: %w", b.Type, ids[i], res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s %d", ErrOrderItemMissing, b.Type, ids[i])
			}
		}

		var count int64
		if err := tx.Model(model).Where(scopeColumn+" = ? AND is_deleted = ?", scope, false).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(b.Entries) {
			return fmt.Errorf("%w: %s scope %d has %d items, got %d", ErrIncompleteOrder, b.Type, scope, count, len(b.Entries))
		}

		s.log.Debug("order bucket saved", "type", b.Type, "scope", scope, "entries", len(b.Entries))
		return nil
	})
}

// CountLessons returns how many live lessons a module holds across all four collections.
func (s *Store) CountLessons(ctx context.Context, moduleID uint) (int, error) {
	db := s.db.WithContext(ctx)
	total := 0
	for _, model := range []interface{}{&courseModels.Article{}, &courseModels.Question{}, &courseModels.Quiz{}, &courseModels.PastPaper{}} {
		var n int64
		if err := db.Model(model).Where("module_id = ? AND is_deleted = ?", moduleID, false).Count(&n).Error; err != nil {
			return 0, err
		}
		total += int(n)
	}
	return total, nil
}

func orderTarget(t ordering.ItemType) (interface{}, string, error) {
	switch t {
	case ordering.TypeModule:
		return &courseModels.Module{}, "course_id", nil
	case ordering.TypeArticle:
		return &courseModels.Article{}, "module_id", nil
	case ordering.TypeQuestion:
		return &courseModels.Question{}, "module_id", nil
	case ordering.TypeQuiz:
		return &courseModels.Quiz{}, "module_id", nil
	case ordering.TypePastPaper:
		return &courseModels.PastPaper{}, "module_id", nil
	}
	return nil, "", fmt.Errorf("%w: %q", ordering.ErrUnknownType, t)
}
