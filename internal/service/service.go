// Package service exposes the board operations used by the command line and
// the terminal board. Every mutating operation is one store transaction;
// reads needed to compute the write happen inside that same transaction.
// After a successful commit the touched collections are announced on the hub.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"localboard/internal/live"
	"localboard/internal/repository"
)

var (
	// ErrValidation is the root of every input rejected before reaching the store.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTitle is returned for blank or whitespace-only titles.
	ErrEmptyTitle = fmt.Errorf("%w: title must not be empty", ErrValidation)

	// ErrUnknownBackground is returned for a background outside model.Backgrounds.
	ErrUnknownBackground = fmt.Errorf("%w: unknown background", ErrValidation)
)

type Service struct {
	store *repository.Store
	hub   *live.Hub
	log   *logrus.Entry
}

func New(store *repository.Store, hub *live.Hub, log *logrus.Logger) *Service {
	return &Service{
		store: store,
		hub:   hub,
		log:   log.WithField("component", "service"),
	}
}

// commit runs fn in one transaction and announces it when it wrote anything.
// fn reports whether it changed a row; a not-found error becomes (false, nil).
func (s *Service) commit(ctx context.Context, op string, fields logrus.Fields, collections []live.Collection, fn func(tx *repository.Store) (bool, error)) (bool, error) {
	entry := s.log.WithFields(fields).WithField("op", op)

	var changed bool
	err := s.store.Transaction(ctx, op, func(tx *repository.Store) error {
		var err error
		changed, err = fn(tx)
		if err == nil && !changed {
			return repository.ErrNoChange
		}
		return err
	})

	switch {
	case errors.Is(err, repository.ErrNoChange):
		entry.Debug("no change")
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		entry.WithError(err).Debug("target not found")
		return false, nil
	case err != nil:
		entry.WithError(err).Error("operation failed")
		return false, err
	}

	s.hub.Publish(live.NewCommit(collections...))
	entry.Debug("committed")
	return true, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}
