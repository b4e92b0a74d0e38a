package model

type Column struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	BoardID uint   `gorm:"not null;index"`
	Title   string `gorm:"not null"`
	Order   int    `gorm:"column:position;not null;index"`
}

// DefaultColumns are seeded, in this order, when the first board is created.
var DefaultColumns = []string{"To do", "Doing", "Done"}
