package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PairStore manages a unique (left, right) relation such as a favorite or a
// subscription. Each pair is either absent or present.
type PairStore[T any] struct {
	leftColumn     string
	rightColumn    string
	newPair        func(left, right uint) *T
	existsMessage  string
	missingMessage string
}

func NewPairStore[T any](leftColumn, rightColumn string, newPair func(left, right uint) *T, existsMessage, missingMessage string) *PairStore[T] {
	return &PairStore[T]{
		leftColumn:     leftColumn,
		rightColumn:    rightColumn,
		newPair:        newPair,
		existsMessage:  existsMessage,
		missingMessage: missingMessage,
	}
}

func (p *PairStore[T]) where(db *gorm.DB, left, right uint) *gorm.DB {
	return db.Model(new(T)).Where(clause.Eq{Column: p.leftColumn, Value: left}).Where(clause.Eq{Column: p.rightColumn, Value: right})
}

// Add moves the pair to present. The existence check only produces the
// friendly error; the unique index decides concurrent inserts.
func (p *PairStore[T]) Add(ctx context.Context, db *gorm.DB, left, right uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := p.where(tx, left, right).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check pair: %w", err)
		}
		if count > 0 {
			return &StateError{Message: p.existsMessage}
		}

		if err := tx.Omit(clause.Associations).Create(p.newPair(left, right)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &StateError{Message: p.existsMessage}
			}
			return fmt.Errorf("failed to create pair: %w", err)
		}
		return nil
	})
}

// Remove moves the pair to absent with a single DELETE.
func (p *PairStore[T]) Remove(ctx context.Context, db *gorm.DB, left, right uint) error {
	res := db.WithContext(ctx).
		Where(clause.Eq{Column: p.leftColumn, Value: left}).
		Where(clause.Eq{Column: p.rightColumn, Value: right}).
		Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("failed to delete pair: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &StateError{Message: p.missingMessage}
	}
	return nil
}

// RightsOf returns which of the given right ids are paired with left.
func (p *PairStore[T]) RightsOf(ctx context.Context, db *gorm.DB, left uint, rights []uint) (map[uint]bool, error) {
	present := make(map[uint]bool)
	if left == 0 || len(rights) == 0 {
		return present, nil
	}
	var ids []uint
	err := db.WithContext(ctx).Model(new(T)).
		Where(clause.Eq{Column: p.leftColumn, Value: left}).
		Where(clause.IN{Column: p.rightColumn, Values: toValues(rights)}).
		Pluck(p.rightColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pairs: %w", err)
	}
	for _, id := range ids {
		present[id] = true
	}
	return present, nil
}

// LeftScope returns a subquery selecting the right ids paired with left.
func (p *PairStore[T]) LeftScope(db *gorm.DB, left uint) *gorm.DB {
	return db.Model(new(T)).Select(p.rightColumn).Where(clause.Eq{Column: p.leftColumn, Value: left})
}

func toValues(ids []uint) []interface{} {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
