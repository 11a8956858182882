package aggregate

import (
	"math"
	"time"

	"github.com/wrenhq/wellnest/models"
)

// HabitStat is the derived weekly completion figure for one habit.
type HabitStat struct {
	HabitID        uint   `json:"habit_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	CompletionRate int    `json:"completion_rate"` // percent of the 7-day week
}

// HabitStats computes per-habit completion rates for the week starting at
// weekStart. The raw completion count is the ground truth: duplicate rows
// for the same day are counted, the rate is simply clamped to [0, 100].
// Order follows the habits slice; habits with no completions yield 0.
func HabitStats(habits []models.Habit, completions []models.HabitCompletion, weekStart time.Time) []HabitStat {
	weekEnd := weekStart.AddDate(0, 0, 7)

	counts := make(map[uint]int, len(habits))
	for _, c := range completions {
		d := c.CompletedDate.Local()
		if d.Before(weekStart) || !d.Before(weekEnd) {
			continue
		}
		counts[c.HabitID]++
	}

	stats := make([]HabitStat, 0, len(habits))
	for _, h := range habits {
		rate := int(math.Round(float64(counts[h.ID]) / 7 * 100))
		if rate > 100 {
			rate = 100
		}
		if rate < 0 {
			rate = 0
		}
		stats = append(stats, HabitStat{
			HabitID:        h.ID,
			Name:           h.Name,
			Category:       h.Category,
			CompletionRate: rate,
		})
	}
	return stats
}

// CompletionsInWeek counts completions falling inside the week window,
// across all habits. Used for the dashboard's "habits completed" figure.
func CompletionsInWeek(completions []models.HabitCompletion, weekStart time.Time) int {
	weekEnd := weekStart.AddDate(0, 0, 7)
	n := 0
	for _, c := range completions {
		d := c.CompletedDate.Local()
		if !d.Before(weekStart) && d.Before(weekEnd) {
			n++
		}
	}
	return n
}
