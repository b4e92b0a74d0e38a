package model

import (
	"time"
)

type Board struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Title      string    `gorm:"not null;index"`
	Background string
	CreatedAt  time.Time `gorm:"index"`
}
