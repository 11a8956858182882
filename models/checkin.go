package models

import "time"

// Energy levels are stored as integers 1..5 and translated to labels at the
// boundary. Free-text energy values from older clients are mapped before save.
var energyLabels = [...]string{"Very Low", "Low", "Medium", "High", "Very High"}

const (
	EnergyMin     = 1
	EnergyMax     = 5
	EnergyDefault = 3 // mid-scale when the client omits energy
)

// CheckIn is one user-submitted wellness observation. CreatedAt doubles as
// the observation timestamp and is immutable once the row exists.
type CheckIn struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	MoodScore   int       `gorm:"not null" json:"mood_score"`
	EnergyLevel int       `gorm:"not null;default:3" json:"energy_level"`
	SleepHours  float64   `gorm:"not null;default:0" json:"sleep_hours"`
	Notes       string    `gorm:"size:1024" json:"notes"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName keeps the canonical schema name shared with earlier deployments.
func (CheckIn) TableName() string { return "mood_checkins" }

// EnergyLabel returns the human label for the check-in's energy level.
func (c CheckIn) EnergyLabel() string {
	return EnergyLabelFor(c.EnergyLevel)
}

// EnergyLabelFor maps an integer energy level to its display label.
// Out-of-range levels degrade to the mid-scale label rather than failing.
func EnergyLabelFor(level int) string {
	if level < EnergyMin || level > EnergyMax {
		level = EnergyDefault
	}
	return energyLabels[level-1]
}

// EnergyLevelFromLabel translates a legacy free-text energy value back to the
// canonical integer level. Unknown text maps to the default mid-scale level.
func EnergyLevelFromLabel(label string) int {
	for i, l := range energyLabels {
		if l == label {
			return i + 1
		}
	}
	return EnergyDefault
}
