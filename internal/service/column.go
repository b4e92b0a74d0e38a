package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"localboard/internal/live"
	"localboard/internal/model"
	"localboard/internal/ordering"
	"localboard/internal/repository"
)

// AddColumn appends a column to the board and returns its id.
func (s *Service) AddColumn(ctx context.Context, boardID uint, title string) (uint, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return 0, err
	}

	var column *model.Column
	err = s.store.Transaction(ctx, "add_column", func(tx *repository.Store) error {
		if _, err := tx.Boards.GetByID(ctx, boardID); err != nil {
			return err
		}
		count, err := tx.Columns.Count(ctx, boardID)
		if err != nil {
			return err
		}
		column = &model.Column{BoardID: boardID, Title: title, Order: int(count)}
		return tx.Columns.Create(ctx, column)
	})
	if err != nil {
		s.log.WithError(err).WithField("board_id", boardID).Error("add column failed")
		return 0, err
	}

	s.hub.Publish(live.NewCommit(live.Columns))
	s.log.WithFields(logrus.Fields{"board_id": boardID, "column_id": column.ID}).Debug("column added")
	return column.ID, nil
}

func (s *Service) RenameColumn(ctx context.Context, columnID uint, title string) (bool, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return false, err
	}
	return s.commit(ctx, "rename_column", logrus.Fields{"column_id": columnID}, []live.Collection{live.Columns},
		func(tx *repository.Store) (bool, error) {
			return tx.Columns.UpdateTitle(ctx, columnID, title)
		})
}

// DeleteColumn removes the column and all of its cards, then closes the gap
// among the remaining columns. All of it is one transaction.
func (s *Service) DeleteColumn(ctx context.Context, columnID uint) (bool, error) {
	return s.commit(ctx, "delete_column", logrus.Fields{"column_id": columnID}, []live.Collection{live.Columns, live.Cards},
		func(tx *repository.Store) (bool, error) {
			column, err := tx.Columns.GetByID(ctx, columnID)
			if err != nil {
				return false, err
			}
			if _, err := tx.Cards.DeleteByColumnID(ctx, columnID); err != nil {
				return false, err
			}
			deleted, err := tx.Columns.Delete(ctx, columnID)
			if err != nil || !deleted {
				return false, err
			}

			siblings, err := tx.Columns.Siblings(ctx, column.BoardID)
			if err != nil {
				return false, err
			}
			if !ordering.Dense(siblings) {
				if err := tx.Columns.ApplyOrders(ctx, ordering.Reindex(siblings)); err != nil {
					return false, err
				}
			}
			return true, nil
		})
}

// MoveColumn moves a column to index (or ordering.Append) among its board's
// columns and rewrites every sibling's order. Moving onto its own slot is a
// no-op that writes nothing.
func (s *Service) MoveColumn(ctx context.Context, columnID uint, index int) (bool, error) {
	fields := logrus.Fields{"column_id": columnID, "index": index}
	return s.commit(ctx, "move_column", fields, []live.Collection{live.Columns},
		func(tx *repository.Store) (bool, error) {
			column, err := tx.Columns.GetByID(ctx, columnID)
			if err != nil {
				return false, err
			}
			siblings, err := tx.Columns.Siblings(ctx, column.BoardID)
			if err != nil {
				return false, err
			}

			plan := ordering.Reconcile(ordering.Request{
				EntityID: columnID,
				From:     column.BoardID,
				To:       column.BoardID,
				Index:    index,
			}, siblings, siblings)
			if plan.Noop {
				return false, nil
			}
			if err := tx.Columns.ApplyOrders(ctx, plan.Destination); err != nil {
				return false, err
			}
			return true, nil
		})
}
