package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/wrenhq/wellnest/models"
)

// Gorm implements Store on top of the shared *gorm.DB connection.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps a gorm connection in the store contract.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) RecentCheckIns(ctx context.Context, userID uint, since time.Time, limit int) ([]models.CheckIn, error) {
	var rows []models.CheckIn
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Gorm) WeekCheckIns(ctx context.Context, userID uint, weekStart time.Time) ([]models.CheckIn, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)
	var rows []models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, weekStart, weekEnd).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Gorm) InsertCheckIn(ctx context.Context, ci *models.CheckIn) error {
	return s.db.WithContext(ctx).Create(ci).Error
}

func (s *Gorm) HabitsByUser(ctx context.Context, userID uint) ([]models.Habit, error) {
	var rows []models.Habit
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Gorm) CompletionsSince(ctx context.Context, userID uint, fromDate time.Time) ([]models.HabitCompletion, error) {
	var rows []models.HabitCompletion
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed_date >= ?", userID, fromDate).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
