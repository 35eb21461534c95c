package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "finpal/internal/errors"
	"finpal/internal/models"
	"finpal/internal/pagination"
)

// savingsService handles savings-goal business logic.
type savingsService struct {
	db *gorm.DB
}

// NewSavingsService creates a new SavingsServicer.
func NewSavingsService(db *gorm.DB) SavingsServicer {
	return &savingsService{db: db}
}

// CreateGoal creates a savings goal. A goal created with currentAmount
// already at or past the target starts out completed without emitting a
// celebration event, since nothing transitioned.
func (s *savingsService) CreateGoal(userID, title string, targetAmount, currentAmount float64, dueDate *time.Time, label string) (*models.SavingsGoal, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if currentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}

	goal := &models.SavingsGoal{
		UserID:           userID,
		Title:            title,
		TargetAmount:     targetAmount,
		CurrentAmount:    currentAmount,
		DueDate:          dueDate,
		Label:            label,
		Completed:        currentAmount >= targetAmount,
		StreakDays:       0,
		Achievement:      models.AchievementJustStarted,
		AchievementLevel: 1,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals retrieves a paginated list of the user's goals.
func (s *savingsService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user
func (s *savingsService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal merges the provided fields. When the merged amounts cross the
// target for the first time, completed flips true and a single celebration
// event is returned. Edits can push completed back to false; the next
// upward crossing celebrates again.
func (s *savingsService) UpdateGoal(userID, goalID string, update GoalUpdate) (*models.SavingsGoal, []GoalEvent, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]any{}
	if update.Title != nil {
		if *update.Title == "" {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title cannot be empty")
		}
		updates["title"] = *update.Title
		goal.Title = *update.Title
	}
	if update.TargetAmount != nil {
		if *update.TargetAmount <= 0 {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *update.TargetAmount
		goal.TargetAmount = *update.TargetAmount
	}
	if update.CurrentAmount != nil {
		if *update.CurrentAmount < 0 {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
		}
		updates["current_amount"] = *update.CurrentAmount
		goal.CurrentAmount = *update.CurrentAmount
	}
	if update.DueDate != nil {
		updates["due_date"] = *update.DueDate
		goal.DueDate = update.DueDate
	}
	if update.Label != nil {
		updates["label"] = *update.Label
		goal.Label = *update.Label
	}

	var events []GoalEvent
	nowCompleted := goal.CurrentAmount >= goal.TargetAmount
	if nowCompleted != goal.Completed {
		updates["completed"] = nowCompleted
		if nowCompleted {
			events = append(events, GoalEvent{
				Kind:    EventGoalCompleted,
				Message: "Goal achieved! Great job saving money!",
			})
		}
		goal.Completed = nowCompleted
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.SavingsGoal{}).
			Where("id = ?", goal.ID).Updates(updates).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, events, nil
}

// DeleteGoal removes the matching goal. An unknown id is a silent no-op,
// matching the lookup-miss policy for store deletions.
func (s *savingsService) DeleteGoal(userID, goalID string) error {
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&models.SavingsGoal{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// FundGoal adds amount to the goal inside one database transaction that
// also covers the audit record and, for internal payments, the paired
// debit transaction. The streak advances once per funding call.
func (s *savingsService) FundGoal(userID, goalID string, amount float64, externalPayment bool, paymentRef string) (*FundResult, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidFundAmount
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	result := &FundResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		newAmount := goal.CurrentAmount + amount
		newStreak := goal.StreakDays + 1
		achievement, level := models.AchievementForStreak(newStreak)
		justCompleted := newAmount >= goal.TargetAmount && !goal.Completed

		if level > goal.AchievementLevel {
			result.Events = append(result.Events, GoalEvent{
				Kind:    EventAchievementUnlocked,
				Message: fmt.Sprintf("Achievement Unlocked: %s!", achievement),
			})
		}
		if justCompleted {
			result.Events = append(result.Events, GoalEvent{
				Kind:    EventGoalCompleted,
				Message: "Goal achieved! Congratulations!",
			})
		}

		if err := tx.Model(&models.SavingsGoal{}).Where("id = ?", goal.ID).Updates(map[string]any{
			"current_amount":    newAmount,
			"completed":         newAmount >= goal.TargetAmount,
			"streak_days":       newStreak,
			"achievement":       achievement,
			"achievement_level": level,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		goal.CurrentAmount = newAmount
		goal.Completed = newAmount >= goal.TargetAmount
		goal.StreakDays = newStreak
		goal.Achievement = achievement
		goal.AchievementLevel = level

		audit := &models.SavingsTransaction{
			UserID:     userID,
			GoalID:     goal.ID,
			GoalTitle:  goal.Title,
			Amount:     amount,
			Date:       time.Now(),
			PaymentRef: paymentRef,
		}
		if err := tx.Create(audit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// An external payment brings new money in, so no debit is taken
		// from the tracked balance.
		if !externalPayment {
			debit := &models.Transaction{
				UserID:      userID,
				Amount:      -amount,
				Description: fmt.Sprintf("Funds added to %q savings goal", goal.Title),
				Date:        time.Now(),
				Category:    models.CategoryPersonal,
				Type:        models.TransactionTypeNeed,
			}
			if err := tx.Create(debit).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.DebitTransaction = debit
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Goal = goal
	return result, nil
}

// GetSavingsTransactions retrieves the audit trail of funding events.
func (s *savingsService) GetSavingsTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsTransaction], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsTransaction{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.SavingsTransaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}
