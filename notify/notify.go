// Package notify is the real-time data-change port. Writers publish a Change
// after a successful record mutation; the presenting layer subscribes and
// re-runs the (idempotent, cheap) dashboard computations on receipt. No
// incremental update logic lives here; a change only says "refetch".
package notify

import "context"

// Family names a record family whose rows changed.
type Family string

const (
	FamilyCheckIns    Family = "checkins"
	FamilyHabits      Family = "habits"
	FamilyCompletions Family = "habit_completions"
)

// Change identifies whose records changed and which family.
type Change struct {
	UserID uint   `json:"user_id"`
	Family Family `json:"family"`
}

// Notifier delivers change signals per owner. Publish is fire-and-forget;
// delivery is best-effort and slow subscribers may miss events.
type Notifier interface {
	Publish(ctx context.Context, ch Change)
	// Subscribe returns a channel of changes for one owner and a cancel
	// function that releases the subscription and closes the channel.
	Subscribe(ctx context.Context, userID uint) (<-chan Change, func())
}
