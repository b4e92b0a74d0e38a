package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"localboard/internal/model"
	"localboard/internal/ordering"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uint) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// GetByColumnIDs retrieves the cards of every listed column, sorted by
// column and position
func (r *CardRepository) GetByColumnIDs(ctx context.Context, columnIDs []uint) ([]model.Card, error) {
	var cards []model.Card
	if len(columnIDs) == 0 {
		return cards, nil
	}
	result := r.db.WithContext(ctx).
		Where("column_id IN ?", columnIDs).
		Order("column_id").Order("position").Order("id").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// MaxOrder returns the highest position in a column, or -1 when it is empty
func (r *CardRepository) MaxOrder(ctx context.Context, columnID uint) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("COALESCE(MAX(position), -1) as max").
		Where("column_id = ?", columnID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// Siblings returns the (id, order) pairs of the column's cards
func (r *CardRepository) Siblings(ctx context.Context, columnID uint) ([]ordering.Sibling, error) {
	var siblings []ordering.Sibling
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("id, position AS \"order\"").
		Where("column_id = ?", columnID).
		Scan(&siblings).Error
	return siblings, err
}

// Patch applies a partial update and reports whether the card exists
func (r *CardRepository) Patch(ctx context.Context, id uint, patch model.CardPatch) (bool, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.ClearDueDate {
		updates["due_date"] = nil
	} else if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.Done != nil {
		updates["done"] = *patch.Done
	}
	if len(updates) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&model.Card{}).Where("id = ?", id).Count(&count).Error
		return count == 1, err
	}

	result := r.db.WithContext(ctx).Model(&model.Card{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected == 1, result.Error
}

// Delete removes a card by its ID
func (r *CardRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	return result.RowsAffected == 1, result.Error
}

// DeleteByColumnID removes every card of a column and returns how many went
func (r *CardRepository) DeleteByColumnID(ctx context.Context, columnID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("column_id = ?", columnID).Delete(&model.Card{})
	return result.RowsAffected, result.Error
}

// ApplyOrders moves every assigned card into columnID at its new position.
// A missing row fails the whole batch, so this must run inside a transaction.
func (r *CardRepository) ApplyOrders(ctx context.Context, columnID uint, assignments []ordering.Assignment) error {
	for _, a := range assignments {
		result := r.db.WithContext(ctx).Model(&model.Card{}).
			Where("id = ?", a.ID).
			Updates(map[string]interface{}{"position": a.Order, "column_id": columnID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("reorder card %d: %w", a.ID, ErrRowNotUpdated)
		}
	}
	return nil
}
