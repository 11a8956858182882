package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrenhq/wellnest/aggregate"
	"github.com/wrenhq/wellnest/config"
	"github.com/wrenhq/wellnest/notify"
	"github.com/wrenhq/wellnest/store"
	"github.com/wrenhq/wellnest/utils"
)

// DashboardController serves the derived weekly statistics. Results are
// recomputed from the latest records on every request and never cached,
// which keeps repeated calls (e.g. after a change notification) consistent
// with the stored snapshot.
type DashboardController struct {
	store    store.Store
	notifier notify.Notifier
}

// NewDashboardController creates a new controller instance.
func NewDashboardController(st store.Store, n notify.Notifier) *DashboardController {
	return &DashboardController{store: st, notifier: n}
}

// resolveWeekStart parses an optional ?week_start=YYYY-MM-DD override,
// falling back to the current week's Sunday.
func resolveWeekStart(ctx *gin.Context) (time.Time, bool) {
	if v := ctx.Query("week_start"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return aggregate.StartOfWeek(parsed), true
	}
	return aggregate.StartOfWeek(time.Now()), true
}

// WeeklyMood returns the 7-day mood/sleep series plus averages.
func (d *DashboardController) WeeklyMood(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	weekStart, ok := resolveWeekStart(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid week_start, expected YYYY-MM-DD")
		return
	}

	checkIns, err := d.store.WeekCheckIns(ctx.Request.Context(), userID, weekStart)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load check-ins")
		return
	}

	agg := aggregate.WeeklyMoodSeries(checkIns, weekStart, config.Get().MoodScale)

	utils.Success(ctx, gin.H{
		"week_start": weekStart.Format("2006-01-02"),
		"days":       agg.Days,
		"avg_mood":   agg.AvgMood,
		"avg_sleep":  agg.AvgSleep,
	})
}

// HabitStats returns per-habit completion rates for the week plus the total
// number of completions.
func (d *DashboardController) HabitStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	weekStart, ok := resolveWeekStart(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid week_start, expected YYYY-MM-DD")
		return
	}

	habits, err := d.store.HabitsByUser(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load habits")
		return
	}

	completions, err := d.store.CompletionsSince(ctx.Request.Context(), userID, weekStart)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load completions")
		return
	}

	stats := aggregate.HabitStats(habits, completions, weekStart)
	total := aggregate.CompletionsInWeek(completions, weekStart)

	utils.Success(ctx, gin.H{
		"week_start":        weekStart.Format("2006-01-02"),
		"habits":            stats,
		"total_completions": total,
	})
}

// Stream pushes change notifications as server-sent events so the dashboard
// can refetch when records change instead of polling.
func (d *DashboardController) Stream(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	changes, cancel := d.notifier.Subscribe(ctx.Request.Context(), userID)
	defer cancel()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case ch, open := <-changes:
			if !open {
				return false
			}
			ctx.SSEvent("changed", gin.H{"family": ch.Family})
			return true
		case <-heartbeat.C:
			ctx.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
