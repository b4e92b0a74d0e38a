package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"localboard/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// First returns the board with the lowest id, or nil when no board exists.
func (r *BoardRepository) First(ctx context.Context) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Order("id").First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No board yet
		}
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) GetByID(ctx context.Context, id uint) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// UpdateTitle reports false when no board has the given id.
func (r *BoardRepository) UpdateTitle(ctx context.Context, id uint, title string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Board{}).Where("id = ?", id).Update("title", title)
	return result.RowsAffected == 1, result.Error
}

func (r *BoardRepository) UpdateBackground(ctx context.Context, id uint, background string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Board{}).Where("id = ?", id).Update("background", background)
	return result.RowsAffected == 1, result.Error
}
