package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrenhq/wellnest/models"
	"github.com/wrenhq/wellnest/notify"
	"github.com/wrenhq/wellnest/utils"
)

// HabitController manages habit definitions and daily completions.
type HabitController struct {
	db       *gorm.DB
	notifier notify.Notifier
}

// NewHabitController creates a new controller instance.
func NewHabitController(db *gorm.DB, n notify.Notifier) *HabitController {
	return &HabitController{db: db, notifier: n}
}

func habitsCacheKey(userID uint) string {
	return fmt.Sprintf("cache:user:%d:habits", userID)
}

// CreateHabit registers a new habit definition for the caller.
func (h *HabitController) CreateHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required,min=1,max=128"`
		Category string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	name := utils.Sanitize(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "habit name cannot be empty")
		return
	}

	habit := models.Habit{
		UserID:   userID,
		Name:     name,
		Category: utils.Sanitize(req.Category),
	}
	if err := h.db.Create(&habit).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create habit")
		return
	}

	utils.InvalidateByPrefix(habitsCacheKey(userID))
	h.notifier.Publish(ctx.Request.Context(), notify.Change{UserID: userID, Family: notify.FamilyHabits})

	utils.Success(ctx, gin.H{"habit": habit})
}

// ListHabits returns all habit definitions for the caller.
func (h *HabitController) ListHabits(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cacheKey := habitsCacheKey(userID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var habits []models.Habit
	if err := h.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load habits")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"habits": habits}}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, gin.H{"habits": habits})
}

// CompleteHabit records a completion for the given habit on a calendar date
// (today when the body omits it). Duplicate completions for the same day are
// stored as submitted; the aggregator counts raw rows.
func (h *HabitController) CompleteHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	habitID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid habit id")
		return
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "habit not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load habit")
		return
	}

	var req struct {
		Date string `json:"date"` // YYYY-MM-DD, defaults to today
	}
	_ = ctx.ShouldBindJSON(&req)

	completedDate := localMidnight(time.Now())
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40033, "invalid date, expected YYYY-MM-DD")
			return
		}
		completedDate = parsed
	}

	completion := models.HabitCompletion{
		HabitID:       habit.ID,
		UserID:        userID,
		CompletedDate: completedDate,
	}
	if err := h.db.Create(&completion).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to record completion")
		return
	}

	h.notifier.Publish(ctx.Request.Context(), notify.Change{UserID: userID, Family: notify.FamilyCompletions})

	utils.Success(ctx, gin.H{"completion": completion})
}

func localMidnight(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
