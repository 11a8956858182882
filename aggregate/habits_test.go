package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenhq/wellnest/models"
)

func completion(habitID uint, day int) models.HabitCompletion {
	return models.HabitCompletion{
		HabitID:       habitID,
		CompletedDate: weekStart.AddDate(0, 0, day),
	}
}

func TestHabitStatsRates(t *testing.T) {
	// round(c/7*100) for every achievable count
	expected := map[int]int{0: 0, 1: 14, 2: 29, 3: 43, 4: 57, 5: 71, 6: 86, 7: 100}

	for count, want := range expected {
		t.Run(fmt.Sprintf("count_%d", count), func(t *testing.T) {
			habits := []models.Habit{{ID: 1, Name: "Meditate", Category: "mind"}}
			var completions []models.HabitCompletion
			for d := 0; d < count; d++ {
				completions = append(completions, completion(1, d))
			}

			stats := HabitStats(habits, completions, weekStart)
			require.Len(t, stats, 1)
			assert.Equal(t, want, stats[0].CompletionRate)
			assert.GreaterOrEqual(t, stats[0].CompletionRate, 0)
			assert.LessOrEqual(t, stats[0].CompletionRate, 100)
		})
	}
}

func TestHabitStatsDuplicateDaysCounted(t *testing.T) {
	habits := []models.Habit{{ID: 7, Name: "Walk", Category: "body"}}
	completions := []models.HabitCompletion{
		completion(7, 2),
		completion(7, 2), // duplicate row for the same day
		completion(7, 4),
	}

	stats := HabitStats(habits, completions, weekStart)
	require.Len(t, stats, 1)
	assert.Equal(t, 43, stats[0].CompletionRate)
}

func TestHabitStatsClampsAboveFullWeek(t *testing.T) {
	habits := []models.Habit{{ID: 3, Name: "Hydrate", Category: "body"}}
	var completions []models.HabitCompletion
	for d := 0; d < 7; d++ {
		completions = append(completions, completion(3, d), completion(3, d))
	}

	stats := HabitStats(habits, completions, weekStart)
	require.Len(t, stats, 1)
	assert.Equal(t, 100, stats[0].CompletionRate)
}

func TestHabitStatsWindowAndOrder(t *testing.T) {
	habits := []models.Habit{
		{ID: 1, Name: "Read", Category: "mind"},
		{ID: 2, Name: "Run", Category: "body"},
	}
	completions := []models.HabitCompletion{
		completion(1, 0),
		completion(2, 6),
		completion(2, 7),  // next week, excluded
		completion(2, -1), // previous week, excluded
		{HabitID: 99, CompletedDate: weekStart}, // unknown habit, ignored
	}

	stats := HabitStats(habits, completions, weekStart)
	require.Len(t, stats, 2)
	assert.Equal(t, uint(1), stats[0].HabitID)
	assert.Equal(t, 14, stats[0].CompletionRate)
	assert.Equal(t, uint(2), stats[1].HabitID)
	assert.Equal(t, 14, stats[1].CompletionRate)
}

func TestHabitStatsEmpty(t *testing.T) {
	assert.Empty(t, HabitStats(nil, nil, weekStart))

	stats := HabitStats([]models.Habit{{ID: 5, Name: "Journal"}}, nil, weekStart)
	require.Len(t, stats, 1)
	assert.Zero(t, stats[0].CompletionRate)
}

func TestCompletionsInWeek(t *testing.T) {
	completions := []models.HabitCompletion{
		completion(1, 0),
		completion(1, 6),
		completion(2, 3),
		completion(2, 7),
		{HabitID: 1, CompletedDate: weekStart.Add(-time.Hour)},
	}
	assert.Equal(t, 3, CompletionsInWeek(completions, weekStart))
	assert.Equal(t, 0, CompletionsInWeek(nil, weekStart))
}
