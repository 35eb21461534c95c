package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Name                string     `gorm:"not null" json:"name"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Avatar              string     `json:"avatar,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Bio                 string     `json:"bio,omitempty"`
	Premium             bool       `gorm:"default:false" json:"premium"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	SavingsGoals []SavingsGoal `gorm:"foreignKey:UserID" json:"savings_goals,omitempty"`
	Nudges       []Nudge       `gorm:"foreignKey:UserID" json:"nudges,omitempty"`
}
