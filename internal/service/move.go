package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"localboard/internal/dnd"
	"localboard/internal/live"
	"localboard/internal/ordering"
	"localboard/internal/repository"
)

// MoveCard moves a card to index (or ordering.Append) in toColumnID and
// rewrites the orders of both affected columns in one transaction.
//
// Sibling lists are read inside the transaction. If the card no longer lives
// in fromColumnID, its actual column is used as the source. A move onto the
// card's own slot writes nothing and reports false.
func (s *Service) MoveCard(ctx context.Context, cardID, fromColumnID, toColumnID uint, index int) (bool, error) {
	fields := logrus.Fields{"card_id": cardID, "from": fromColumnID, "to": toColumnID, "index": index}
	return s.commit(ctx, "move_card", fields, []live.Collection{live.Cards},
		func(tx *repository.Store) (bool, error) {
			card, err := tx.Cards.GetByID(ctx, cardID)
			if err != nil {
				return false, err
			}
			if card.ColumnID != fromColumnID {
				s.log.WithFields(fields).WithField("actual", card.ColumnID).Warn("stale source column")
			}
			from := card.ColumnID

			source, err := tx.Cards.Siblings(ctx, from)
			if err != nil {
				return false, err
			}
			destination := source
			if toColumnID != from {
				if _, err := tx.Columns.GetByID(ctx, toColumnID); err != nil {
					return false, err
				}
				destination, err = tx.Cards.Siblings(ctx, toColumnID)
				if err != nil {
					return false, err
				}
			}

			plan := ordering.Reconcile(ordering.Request{
				EntityID: cardID,
				From:     from,
				To:       toColumnID,
				Index:    index,
			}, source, destination)
			if plan.Noop {
				return false, nil
			}

			if plan.Source != nil {
				if err := tx.Cards.ApplyOrders(ctx, from, plan.Source); err != nil {
					return false, err
				}
			}
			if err := tx.Cards.ApplyOrders(ctx, plan.MovedTo, plan.Destination); err != nil {
				return false, err
			}
			return true, nil
		})
}

// Apply commits a classified drop.
func (s *Service) Apply(ctx context.Context, move dnd.Move) (bool, error) {
	switch m := move.(type) {
	case dnd.MoveCard:
		return s.MoveCard(ctx, m.CardID, m.FromColumnID, m.ToColumnID, m.TargetIndex)
	case dnd.ReorderColumn:
		return s.MoveColumn(ctx, m.ColumnID, m.TargetIndex)
	default:
		return false, fmt.Errorf("unsupported move %T", move)
	}
}
