package models

import "time"

// NudgeType tags a nudge with its severity.
type NudgeType string

const (
	NudgeTypeInfo        NudgeType = "info"
	NudgeTypeWarning     NudgeType = "warning"
	NudgeTypeAchievement NudgeType = "achievement"
	NudgeTypeTip         NudgeType = "tip"
)

// Nudge is a short advisory message derived from spending heuristics.
type Nudge struct {
	Base
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Message    string    `gorm:"not null" json:"message"`
	Type       NudgeType `gorm:"not null" json:"type"`
	Date       time.Time `gorm:"not null" json:"date"`
	Read       bool      `gorm:"default:false" json:"read"`
	Actionable bool      `gorm:"default:false" json:"actionable"`
}

// SavingsCheckpoint stores the per-user total-saved snapshot taken at the
// end of each nudge generation run, used to measure weekly challenge
// progress on the next run.
type SavingsCheckpoint struct {
	Base
	UserID        string  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PreviousTotal float64 `gorm:"not null" json:"previous_total"`
}
