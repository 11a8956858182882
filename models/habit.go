package models

import "time"

// Habit is a user-defined recurring practice (e.g. meditation, exercise).
type Habit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Category  string    `gorm:"size:64" json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitCompletion marks a habit done on a calendar date. The date carries no
// time of day; rows are stored at local midnight. Duplicate rows for the same
// (habit, date) are tolerated and counted as-is by the aggregator.
type HabitCompletion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	HabitID       uint      `gorm:"index;not null" json:"habit_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	CompletedDate time.Time `gorm:"index;type:date;not null" json:"completed_date"`
	CreatedAt     time.Time `json:"created_at"`
}
