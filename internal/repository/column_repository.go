package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"localboard/internal/model"
	"localboard/internal/ordering"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uint) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// GetByBoardID returns the board's columns sorted by position.
func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uint) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Order("id").Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) Count(ctx context.Context, boardID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Column{}).Where("board_id = ?", boardID).Count(&count).Error
	return count, err
}

// Siblings returns the (id, order) pairs of the board's columns.
func (r *ColumnRepository) Siblings(ctx context.Context, boardID uint) ([]ordering.Sibling, error) {
	var siblings []ordering.Sibling
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("id, position AS \"order\"").
		Where("board_id = ?", boardID).
		Scan(&siblings).Error
	return siblings, err
}

func (r *ColumnRepository) UpdateTitle(ctx context.Context, id uint, title string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Column{}).Where("id = ?", id).Update("title", title)
	return result.RowsAffected == 1, result.Error
}

func (r *ColumnRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id)
	return result.RowsAffected == 1, result.Error
}

// ApplyOrders writes every assignment. A missing row fails the whole batch,
// so this must run inside a transaction.
func (r *ColumnRepository) ApplyOrders(ctx context.Context, assignments []ordering.Assignment) error {
	for _, a := range assignments {
		result := r.db.WithContext(ctx).Model(&model.Column{}).
			Where("id = ?", a.ID).
			Update("position", a.Order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("reorder column %d: %w", a.ID, ErrRowNotUpdated)
		}
	}
	return nil
}
