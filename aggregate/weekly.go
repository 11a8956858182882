// Package aggregate turns raw check-in and habit-completion records into the
// fixed-shape weekly statistics the dashboard renders. Everything here is a
// pure function over snapshots: results are recomputed fresh on every call
// and never stored.
package aggregate

import (
	"math"
	"time"

	"github.com/wrenhq/wellnest/models"
)

// DisplayMoodMax is the upper bound of the rescaled mood range shown on the
// dashboard regardless of the configured storage scale.
const DisplayMoodMax = 10

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DaySlot is one weekday's entry in the weekly series.
type DaySlot struct {
	Day   string  `json:"day"`
	Mood  float64 `json:"mood"`
	Sleep float64 `json:"sleep"`
}

// WeeklyAggregate is the derived weekly rollup. Days always holds exactly 7
// slots in Sun..Sat order; days without a check-in keep zero values.
type WeeklyAggregate struct {
	Days     []DaySlot `json:"days"`
	AvgMood  float64   `json:"avg_mood"`
	AvgSleep float64   `json:"avg_sleep"`
}

// StartOfWeek returns the local Sunday midnight beginning t's calendar week.
func StartOfWeek(t time.Time) time.Time {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.AddDate(0, 0, -int(start.Weekday()))
}

// WeeklyMoodSeries computes the per-day mood/sleep series and averages for
// the week starting at weekStart. Mood scores are rescaled from the storage
// scale onto 0..10 for display. When two check-ins land on the same calendar
// day the one with the later CreatedAt wins; same-day entries are not
// averaged. Averages cover only days that received a check-in and are
// rounded to one decimal; an empty input yields all-zero slots and averages
// of exactly 0.
func WeeklyMoodSeries(checkIns []models.CheckIn, weekStart time.Time, moodScale int) WeeklyAggregate {
	if moodScale <= 0 {
		moodScale = 5
	}
	factor := float64(DisplayMoodMax) / float64(moodScale)
	weekEnd := weekStart.AddDate(0, 0, 7)

	days := make([]DaySlot, 7)
	for i := range days {
		days[i].Day = dayNames[i]
	}

	var latest [7]time.Time
	var filled [7]bool

	for _, ci := range checkIns {
		at := ci.CreatedAt.Local()
		if at.Before(weekStart) || !at.Before(weekEnd) {
			continue
		}
		idx := int(at.Weekday())
		if filled[idx] && !at.After(latest[idx]) {
			continue
		}
		latest[idx] = at
		filled[idx] = true
		days[idx].Mood = float64(ci.MoodScore) * factor
		days[idx].Sleep = ci.SleepHours
	}

	var moodSum, sleepSum float64
	var count int
	for i, ok := range filled {
		if !ok {
			continue
		}
		moodSum += days[i].Mood
		sleepSum += days[i].Sleep
		count++
	}

	agg := WeeklyAggregate{Days: days}
	if count > 0 {
		agg.AvgMood = round1(moodSum / float64(count))
		agg.AvgSleep = round1(sleepSum / float64(count))
	}
	return agg
}

// round1 rounds to one decimal, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
