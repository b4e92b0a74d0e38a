package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"localboard/internal/live"
	"localboard/internal/model"
	"localboard/internal/ordering"
	"localboard/internal/repository"
)

// AddCard appends an open card to the column and returns its id. The new
// card's order is one past the column's highest, or 0 for an empty column.
func (s *Service) AddCard(ctx context.Context, columnID uint, title string) (uint, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return 0, err
	}

	var card *model.Card
	err = s.store.Transaction(ctx, "add_card", func(tx *repository.Store) error {
		if _, err := tx.Columns.GetByID(ctx, columnID); err != nil {
			return err
		}
		maxOrder, err := tx.Cards.MaxOrder(ctx, columnID)
		if err != nil {
			return err
		}
		done := false
		card = &model.Card{ColumnID: columnID, Title: title, Done: &done, Order: maxOrder + 1}
		return tx.Cards.Create(ctx, card)
	})
	if err != nil {
		s.log.WithError(err).WithField("column_id", columnID).Error("add card failed")
		return 0, err
	}

	s.hub.Publish(live.NewCommit(live.Cards))
	s.log.WithFields(logrus.Fields{"column_id": columnID, "card_id": card.ID}).Debug("card added")
	return card.ID, nil
}

// UpdateCard applies a partial patch. Position and column are not part of
// the patch; they only change through MoveCard.
func (s *Service) UpdateCard(ctx context.Context, cardID uint, patch model.CardPatch) (bool, error) {
	if patch.Title != nil {
		title, err := cleanTitle(*patch.Title)
		if err != nil {
			return false, err
		}
		patch.Title = &title
	}
	if patch.Empty() {
		return false, nil
	}
	return s.commit(ctx, "update_card", logrus.Fields{"card_id": cardID}, []live.Collection{live.Cards},
		func(tx *repository.Store) (bool, error) {
			return tx.Cards.Patch(ctx, cardID, patch)
		})
}

// ToggleCard flips the card's done flag.
func (s *Service) ToggleCard(ctx context.Context, cardID uint) (bool, error) {
	return s.commit(ctx, "toggle_card", logrus.Fields{"card_id": cardID}, []live.Collection{live.Cards},
		func(tx *repository.Store) (bool, error) {
			card, err := tx.Cards.GetByID(ctx, cardID)
			if err != nil {
				return false, err
			}
			done := !card.IsDone()
			return tx.Cards.Patch(ctx, cardID, model.CardPatch{Done: &done})
		})
}

// DeleteCard removes one card and closes the gap in its column.
func (s *Service) DeleteCard(ctx context.Context, cardID uint) (bool, error) {
	return s.commit(ctx, "delete_card", logrus.Fields{"card_id": cardID}, []live.Collection{live.Cards},
		func(tx *repository.Store) (bool, error) {
			card, err := tx.Cards.GetByID(ctx, cardID)
			if err != nil {
				return false, err
			}
			deleted, err := tx.Cards.Delete(ctx, cardID)
			if err != nil || !deleted {
				return false, err
			}

			siblings, err := tx.Cards.Siblings(ctx, card.ColumnID)
			if err != nil {
				return false, err
			}
			if !ordering.Dense(siblings) {
				if err := tx.Cards.ApplyOrders(ctx, card.ColumnID, ordering.Reindex(siblings)); err != nil {
					return false, err
				}
			}
			return true, nil
		})
}
