package model

import (
	"time"
)

type Card struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	ColumnID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description *string
	DueDate     *time.Time `gorm:"index"`
	Done        *bool
	Order       int `gorm:"column:position;not null;index"`
}

// IsDone reports whether the card is checked off. A nil Done counts as open.
func (c Card) IsDone() bool {
	return c.Done != nil && *c.Done
}

// CardPatch is a partial update of the user-editable card fields.
// Nil fields are left untouched; ClearDueDate removes an existing due date.
type CardPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Done         *bool
}

// Empty reports whether the patch would not change anything.
func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && !p.ClearDueDate && p.Done == nil
}
