package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrenhq/wellnest/config"
	"github.com/wrenhq/wellnest/models"
	"github.com/wrenhq/wellnest/notify"
	"github.com/wrenhq/wellnest/store"
	"github.com/wrenhq/wellnest/utils"
)

// CheckInController handles daily wellness check-in endpoints.
type CheckInController struct {
	store    store.Store
	notifier notify.Notifier
}

// NewCheckInController creates a new controller instance.
func NewCheckInController(st store.Store, n notify.Notifier) *CheckInController {
	return &CheckInController{store: st, notifier: n}
}

// CreateCheckIn validates and stores one wellness observation. Validation
// failures are reported before any store call is made.
func (c *CheckInController) CreateCheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		MoodScore   *int    `json:"mood_score"`
		EnergyLevel int     `json:"energy_level"`
		Energy      string  `json:"energy"` // legacy free-text clients
		SleepHours  float64 `json:"sleep_hours"`
		Notes       string  `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	cfg := config.Get()
	if req.MoodScore == nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "please select a mood")
		return
	}
	if *req.MoodScore < 1 || *req.MoodScore > cfg.MoodScale {
		utils.Error(ctx, http.StatusBadRequest, 40022, "mood score out of range")
		return
	}

	energy := req.EnergyLevel
	if energy == 0 && req.Energy != "" {
		energy = models.EnergyLevelFromLabel(req.Energy)
	}
	if energy == 0 {
		energy = models.EnergyDefault
	}
	if energy < models.EnergyMin || energy > models.EnergyMax {
		utils.Error(ctx, http.StatusBadRequest, 40023, "energy level out of range")
		return
	}

	sleep := req.SleepHours
	if sleep < 0 {
		sleep = 0
	}
	if sleep > cfg.MaxSleepHours {
		sleep = cfg.MaxSleepHours
	}

	ci := models.CheckIn{
		UserID:      userID,
		MoodScore:   *req.MoodScore,
		EnergyLevel: energy,
		SleepHours:  sleep,
		Notes:       utils.Sanitize(req.Notes),
	}

	if err := c.store.InsertCheckIn(ctx.Request.Context(), &ci); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to save check-in")
		return
	}

	c.notifier.Publish(ctx.Request.Context(), notify.Change{UserID: userID, Family: notify.FamilyCheckIns})

	utils.Success(ctx, gin.H{"checkin": ci})
}

// RecentCheckIns returns the latest check-ins for the tracker page.
func (c *CheckInController) RecentCheckIns(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	limit := 3
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 10 {
			limit = n
		}
	}

	since := time.Now().AddDate(0, 0, -30)
	rows, err := c.store.RecentCheckIns(ctx.Request.Context(), userID, since, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load check-ins")
		return
	}

	utils.Success(ctx, gin.H{"checkins": rows})
}
