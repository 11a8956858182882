// Package store is the typed access layer for the two wellness record
// families (check-ins, habit completions) plus habit definitions. Every
// query is scoped to the owning user; authorization of the acting identity
// happens at the HTTP boundary before a store call is made.
package store

import (
	"context"
	"time"

	"github.com/wrenhq/wellnest/models"
)

// CheckInReader reads check-in records for one owner.
type CheckInReader interface {
	// RecentCheckIns returns up to limit check-ins created at or after
	// since, newest first.
	RecentCheckIns(ctx context.Context, userID uint, since time.Time, limit int) ([]models.CheckIn, error)
	// WeekCheckIns returns all check-ins inside [weekStart, weekStart+7d).
	WeekCheckIns(ctx context.Context, userID uint, weekStart time.Time) ([]models.CheckIn, error)
}

// CheckInWriter persists new check-ins.
type CheckInWriter interface {
	InsertCheckIn(ctx context.Context, ci *models.CheckIn) error
}

// HabitReader reads habit definitions and completions for one owner.
type HabitReader interface {
	HabitsByUser(ctx context.Context, userID uint) ([]models.Habit, error)
	// CompletionsSince returns completions with CompletedDate >= fromDate.
	CompletionsSince(ctx context.Context, userID uint, fromDate time.Time) ([]models.HabitCompletion, error)
}

// Store bundles the full adapter contract.
type Store interface {
	CheckInReader
	CheckInWriter
	HabitReader
}
