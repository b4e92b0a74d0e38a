package repository

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is the root of every "no such row" error
	ErrNotFound = errors.New("not found")

	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = fmt.Errorf("board %w", ErrNotFound)

	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = fmt.Errorf("column %w", ErrNotFound)

	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = fmt.Errorf("card %w", ErrNotFound)

	// ErrNoChange is returned by a transaction callback that has nothing to
	// write; the transaction is rolled back and no failure is reported
	ErrNoChange = errors.New("no change")

	// ErrRowNotUpdated is returned when a row of a batch update matched nothing
	ErrRowNotUpdated = errors.New("row not updated")
)

// TxError reports a transaction that was rolled back because one of its
// statements failed. Nothing written inside the transaction is visible.
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%s: transaction aborted: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}
