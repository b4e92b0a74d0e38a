package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"localboard/internal/live"
	"localboard/internal/model"
	"localboard/internal/repository"
)

// GetOrCreateDefaultBoard returns the first board. When none exists it
// creates one titled title together with the default columns, in one
// transaction. An existing board is returned unchanged.
func (s *Service) GetOrCreateDefaultBoard(ctx context.Context, title string) (*model.Board, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	var board *model.Board
	created := false
	err = s.store.Transaction(ctx, "get_or_create_board", func(tx *repository.Store) error {
		existing, err := tx.Boards.First(ctx)
		if err != nil {
			return err
		}
		if existing != nil {
			board = existing
			return nil
		}

		board = &model.Board{Title: title, CreatedAt: time.Now()}
		if err := tx.Boards.Create(ctx, board); err != nil {
			return err
		}
		for i, name := range model.DefaultColumns {
			column := &model.Column{BoardID: board.ID, Title: name, Order: i}
			if err := tx.Columns.Create(ctx, column); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("get or create board failed")
		return nil, err
	}

	if created {
		s.hub.Publish(live.NewCommit(live.Boards, live.Columns))
		s.log.WithField("board_id", board.ID).Info("created default board")
	}
	return board, nil
}

// RenameBoard sets a trimmed, non-empty title. It reports false when the
// title is blank (with ErrEmptyTitle) or the board does not exist.
func (s *Service) RenameBoard(ctx context.Context, boardID uint, title string) (bool, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return false, err
	}
	return s.commit(ctx, "rename_board", logrus.Fields{"board_id": boardID}, []live.Collection{live.Boards},
		func(tx *repository.Store) (bool, error) {
			return tx.Boards.UpdateTitle(ctx, boardID, title)
		})
}

// SetBoardBackground picks one of model.Backgrounds, or clears it with "".
func (s *Service) SetBoardBackground(ctx context.Context, boardID uint, background string) (bool, error) {
	if !model.IsBackground(background) {
		return false, ErrUnknownBackground
	}
	return s.commit(ctx, "set_board_background", logrus.Fields{"board_id": boardID}, []live.Collection{live.Boards},
		func(tx *repository.Store) (bool, error) {
			return tx.Boards.UpdateBackground(ctx, boardID, background)
		})
}
