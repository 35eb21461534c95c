package models

import "time"

// Achievement tier names, unlocked by funding streaks.
const (
	AchievementJustStarted     = "Just Started"
	AchievementConsistentSaver = "Consistent Saver"
	AchievementSavingsPro      = "Savings Pro"
	AchievementSavingsExpert   = "Savings Expert"
	AchievementSavingsMaster   = "Savings Master"
)

// SavingsGoal represents a savings target the user is funding over time.
// A streak counts funding events, not calendar days: two deposits on the
// same day advance it twice. That mirrors the product's current behavior
// and is kept deliberately.
type SavingsGoal struct {
	Base
	UserID           string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string     `gorm:"not null" json:"title"`
	TargetAmount     float64    `gorm:"not null" json:"target_amount"`
	CurrentAmount    float64    `gorm:"not null" json:"current_amount"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Label            string     `json:"label,omitempty"`
	Completed        bool       `gorm:"default:false" json:"completed"`
	StreakDays       int        `gorm:"default:0" json:"streak_days"`
	Achievement      string     `gorm:"default:'Just Started'" json:"achievement"`
	AchievementLevel int        `gorm:"default:1" json:"achievement_level"`
}

// AchievementForStreak returns the tier name and level unlocked by the
// given streak. Levels step up at 7, 14, 21 and 30 funding events and
// never step down.
func AchievementForStreak(streak int) (string, int) {
	switch {
	case streak >= 30:
		return AchievementSavingsMaster, 5
	case streak >= 21:
		return AchievementSavingsExpert, 4
	case streak >= 14:
		return AchievementSavingsPro, 3
	case streak >= 7:
		return AchievementConsistentSaver, 2
	default:
		return AchievementJustStarted, 1
	}
}
