package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenhq/wellnest/models"
)

// 2024-03-03 is a Sunday.
var weekStart = time.Date(2024, 3, 3, 0, 0, 0, 0, time.Local)

func checkInAt(day int, hour int, mood int, sleep float64) models.CheckIn {
	return models.CheckIn{
		MoodScore:  mood,
		SleepHours: sleep,
		CreatedAt:  weekStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour),
	}
}

func TestStartOfWeek(t *testing.T) {
	wed := time.Date(2024, 3, 6, 15, 30, 0, 0, time.Local)
	assert.Equal(t, weekStart, StartOfWeek(wed))

	// Sunday maps to itself
	assert.Equal(t, weekStart, StartOfWeek(weekStart.Add(5*time.Hour)))
}

func TestWeeklyMoodSeriesEmptyInput(t *testing.T) {
	agg := WeeklyMoodSeries(nil, weekStart, 5)

	require.Len(t, agg.Days, 7)
	for i, slot := range agg.Days {
		assert.Equal(t, [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}[i], slot.Day)
		assert.Zero(t, slot.Mood)
		assert.Zero(t, slot.Sleep)
	}
	assert.Equal(t, 0.0, agg.AvgMood)
	assert.Equal(t, 0.0, agg.AvgSleep)
}

func TestWeeklyMoodSeriesRescalesAndAverages(t *testing.T) {
	// Monday mood 4/5 sleep 7, Wednesday mood 2/5 sleep 5
	checkIns := []models.CheckIn{
		checkInAt(1, 9, 4, 7),
		checkInAt(3, 9, 2, 5),
	}

	agg := WeeklyMoodSeries(checkIns, weekStart, 5)

	require.Len(t, agg.Days, 7)
	assert.Equal(t, 8.0, agg.Days[1].Mood)
	assert.Equal(t, 7.0, agg.Days[1].Sleep)
	assert.Equal(t, 4.0, agg.Days[3].Mood)
	assert.Equal(t, 5.0, agg.Days[3].Sleep)
	for _, i := range []int{0, 2, 4, 5, 6} {
		assert.Zero(t, agg.Days[i].Mood, "day %d", i)
		assert.Zero(t, agg.Days[i].Sleep, "day %d", i)
	}
	assert.Equal(t, 6.0, agg.AvgMood)
	assert.Equal(t, 6.0, agg.AvgSleep)
}

func TestWeeklyMoodSeriesSameDayOverwrite(t *testing.T) {
	morning := checkInAt(1, 8, 1, 4)
	evening := checkInAt(1, 19, 5, 9)

	// Later check-in wins regardless of input order.
	for _, input := range [][]models.CheckIn{
		{morning, evening},
		{evening, morning},
	} {
		agg := WeeklyMoodSeries(input, weekStart, 5)
		assert.Equal(t, 10.0, agg.Days[1].Mood)
		assert.Equal(t, 9.0, agg.Days[1].Sleep)
	}
}

func TestWeeklyMoodSeriesIdempotent(t *testing.T) {
	checkIns := []models.CheckIn{
		checkInAt(0, 10, 3, 8),
		checkInAt(2, 11, 5, 6.5),
		checkInAt(6, 23, 1, 3),
	}

	first := WeeklyMoodSeries(checkIns, weekStart, 5)
	second := WeeklyMoodSeries(checkIns, weekStart, 5)
	assert.Equal(t, first, second)
}

func TestWeeklyMoodSeriesAveragesSkipEmptyDays(t *testing.T) {
	// A single check-in: averages cover one day, not seven.
	agg := WeeklyMoodSeries([]models.CheckIn{checkInAt(4, 12, 5, 8)}, weekStart, 5)
	assert.Equal(t, 10.0, agg.AvgMood)
	assert.Equal(t, 8.0, agg.AvgSleep)
}

func TestWeeklyMoodSeriesRounding(t *testing.T) {
	// Sleep average (6.5 + 6.0) / 2 = 6.25 rounds half away from zero to 6.3.
	checkIns := []models.CheckIn{
		checkInAt(1, 9, 3, 6.5),
		checkInAt(2, 9, 3, 6.0),
	}
	agg := WeeklyMoodSeries(checkIns, weekStart, 5)
	assert.Equal(t, 6.3, agg.AvgSleep)
	assert.Equal(t, 6.0, agg.AvgMood)
}

func TestWeeklyMoodSeriesRescaleTenPointScale(t *testing.T) {
	agg := WeeklyMoodSeries([]models.CheckIn{checkInAt(1, 9, 7, 8)}, weekStart, 10)
	assert.Equal(t, 7.0, agg.Days[1].Mood)
}

func TestWeeklyMoodSeriesIgnoresOutOfWindowRecords(t *testing.T) {
	outside := models.CheckIn{
		MoodScore:  5,
		SleepHours: 9,
		CreatedAt:  weekStart.AddDate(0, 0, 8),
	}
	agg := WeeklyMoodSeries([]models.CheckIn{outside}, weekStart, 5)
	assert.Equal(t, 0.0, agg.AvgMood)

	agg = WeeklyMoodSeries([]models.CheckIn{checkInAt(2, 9, 4, 7)}, weekStart, 5)
	assert.Equal(t, 8.0, agg.Days[2].Mood)

	// Averages stay in the display range for any in-window input.
	assert.GreaterOrEqual(t, agg.AvgMood, 0.0)
	assert.LessOrEqual(t, agg.AvgMood, 10.0)
}
