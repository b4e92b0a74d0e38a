package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store groups the entity repositories over one database handle. The handle
// is either the root connection or an open transaction.
type Store struct {
	db *gorm.DB

	Boards  *BoardRepository
	Columns *ColumnRepository
	Cards   *CardRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Boards:  NewBoardRepository(db),
		Columns: NewColumnRepository(db),
		Cards:   NewCardRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single transaction. Reads made
// through tx see the transaction's own writes; nothing becomes visible to
// other readers unless fn returns nil and the commit succeeds.
//
// fn must only use tx: the pool holds one connection, so touching the outer
// Store from inside fn blocks forever.
//
// ErrNoChange and not-found errors returned by fn pass through unchanged so
// callers can treat them as no-ops; every other failure is reported as a
// *TxError.
func (s *Store) Transaction(ctx context.Context, op string, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoChange) {
		return err
	}
	var txErr *TxError
	if errors.As(err, &txErr) {
		return err
	}
	return &TxError{Op: op, Err: err}
}

// DataVersion returns SQLite's data_version counter for the store's
// connection. It changes whenever another connection commits to the same
// database file; commits made through this store leave it untouched.
func (s *Store) DataVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.WithContext(ctx).Raw("PRAGMA data_version").Scan(&version).Error
	return version, err
}
