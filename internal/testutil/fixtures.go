package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finpal/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction with the given category, type,
// and signed amount (negative for spending, positive for income).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, category models.TransactionCategory, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, category, txType, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction dated at the given time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID string, category models.TransactionCategory, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
		Category:    category,
		Type:        txType,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a savings goal with the given target and current amounts.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target, current float64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:           userID,
		Title:            fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:     target,
		CurrentAmount:    current,
		Completed:        current >= target,
		Achievement:      models.AchievementJustStarted,
		AchievementLevel: 1,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestNudge creates a nudge dated at the given time.
func CreateTestNudge(t *testing.T, db *gorm.DB, userID string, nudgeType models.NudgeType, date time.Time) *models.Nudge {
	t.Helper()

	nudge := &models.Nudge{
		UserID:  userID,
		Message: fmt.Sprintf("Test Nudge %d", nextID()),
		Type:    nudgeType,
		Date:    date,
	}
	if err := db.Create(nudge).Error; err != nil {
		t.Fatalf("failed to create test nudge: %v", err)
	}
	return nudge
}
