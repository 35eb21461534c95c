package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finpal/internal/errors"
	"finpal/internal/metrics"
	"finpal/internal/models"
)

// Nudge heuristics. Amounts are rupees; windows are days.
const (
	nudgeWindowDays = 7

	topCategoryThreshold   = 50
	deliveryWarnThreshold  = 30
	deliveryAlertThreshold = 100
	trendMinTransactions   = 3
	trendSpendThreshold    = 200
	weeklyChallengeTarget  = 100

	nudgeHistoryCap   = 10
	notificationRunes = 60
)

// categoryAlertThresholds apply to all-time spend, not the weekly window.
var categoryAlertThresholds = map[models.TransactionCategory]float64{
	models.CategoryFood:          200,
	models.CategoryShopping:      500,
	models.CategoryEntertainment: 100,
	models.CategoryTransport:     100,
}

// Threshold check order, so generated nudges are deterministic.
var alertCategories = []models.TransactionCategory{
	models.CategoryFood,
	models.CategoryShopping,
	models.CategoryEntertainment,
	models.CategoryTransport,
}

// nudgeService turns recent spending into advisory messages.
type nudgeService struct {
	db *gorm.DB
}

// NewNudgeService creates a new NudgeServicer.
func NewNudgeService(db *gorm.DB) NudgeServicer {
	return &nudgeService{db: db}
}

// Generate runs every heuristic over the user's transactions and savings
// snapshot, persists the produced nudges ahead of the existing ones, trims
// the history to the cap, and returns the whole run synchronously. The
// weekly-challenge checkpoint advances on every run regardless of outcome.
func (s *nudgeService) Generate(userID string, now time.Time) (*NudgeRun, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	recent := metrics.Recent(transactions, nudgeWindowDays, now)

	run := &NudgeRun{}
	var created []models.Nudge

	add := func(nudgeType models.NudgeType, actionable bool, message string) {
		created = append(created, models.Nudge{
			UserID:     userID,
			Message:    message,
			Type:       nudgeType,
			Date:       now,
			Actionable: actionable,
		})
	}

	// Top spending category over the window.
	if topCategory, topAmount, ok := metrics.TopSpendingCategory(recent); ok && topAmount > topCategoryThreshold {
		add(models.NudgeTypeWarning, true, fmt.Sprintf(
			"You've spent %s on %s in the past week. Consider setting a budget for this category.",
			formatINR(topAmount), topCategory))
	}

	// Food delivery habit.
	var deliverySpend float64
	for _, tx := range recent {
		if tx.Category == models.CategoryFood && tx.Amount < 0 &&
			strings.Contains(strings.ToLower(tx.Description), "delivery") {
			deliverySpend += -tx.Amount
		}
	}
	if deliverySpend > deliveryWarnThreshold {
		add(models.NudgeTypeWarning, true, fmt.Sprintf(
			"Alert! You've spent %s on food delivery this week. Cooking at home could save you money.",
			formatINR(deliverySpend)))
		if deliverySpend > deliveryAlertThreshold {
			run.Alerts = append(run.Alerts, fmt.Sprintf(
				"You've spent %s on food delivery this week! This is higher than your usual spending.",
				formatINR(deliverySpend)))
		}
	}

	// Overall weekly trend.
	if len(recent) > trendMinTransactions {
		if weekSpend := metrics.TotalExpenses(recent); weekSpend > trendSpendThreshold {
			add(models.NudgeTypeInfo, false, fmt.Sprintf(
				"Your spending is trending higher than usual. You've spent %s in the past week.",
				formatINR(weekSpend)))
		}
	}

	// Net-positive week.
	weekIncome := metrics.TotalIncome(recent)
	if weekIncome > metrics.TotalExpenses(recent) && weekIncome > 0 {
		add(models.NudgeTypeAchievement, false,
			"Great job! You've spent less than you earned this week. Keep it up!")
	}

	// Weekly savings challenge against the last checkpoint.
	totalSaved, err := s.totalSaved(userID)
	if err != nil {
		return nil, err
	}
	checkpoint, err := s.loadCheckpoint(userID)
	if err != nil {
		return nil, err
	}
	weeklyProgress := totalSaved - checkpoint.PreviousTotal
	if weeklyProgress < weeklyChallengeTarget {
		add(models.NudgeTypeTip, true, fmt.Sprintf(
			"Savings Challenge: Save %s more this week to unlock the 'Weekly Saver' badge!",
			formatINR(weeklyChallengeTarget-weeklyProgress)))
	} else {
		add(models.NudgeTypeAchievement, false, fmt.Sprintf(
			"Challenge Complete! You've saved %s this week and unlocked the 'Weekly Saver' badge!",
			formatINR(weeklyProgress)))
		run.Alerts = append(run.Alerts, "Weekly Savings Challenge Completed!")
	}

	// All-time category alerts.
	for _, category := range alertCategories {
		spend := metrics.CategorySpend(transactions, category)
		if spend > categoryAlertThresholds[category] {
			add(models.NudgeTypeWarning, true, fmt.Sprintf(
				"Spending Alert: You've spent %s on %s recently. This is higher than recommended.",
				formatINR(spend), category))
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range created {
			if err := tx.Create(&created[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := s.trimHistory(tx, userID); err != nil {
			return err
		}
		// Advance the checkpoint whether or not the challenge was met.
		return s.saveCheckpoint(tx, checkpoint, totalSaved)
	})
	if err != nil {
		return nil, err
	}

	run.Created = created
	if len(created) > 0 {
		run.Notification = truncateMessage(created[0].Message, notificationRunes)
	}

	run.Nudges, err = s.GetUserNudges(userID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetUserNudges returns the persisted nudge list, newest first. Nudges
// from the same run keep their generation order.
func (s *nudgeService) GetUserNudges(userID string) ([]models.Nudge, error) {
	var nudges []models.Nudge
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, id ASC").
		Find(&nudges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nudges, nil
}

// MarkRead flips the read flag on a nudge.
func (s *nudgeService) MarkRead(userID, nudgeID string) (*models.Nudge, error) {
	var nudge models.Nudge
	if err := s.db.Where("id = ? AND user_id = ?", nudgeID, userID).First(&nudge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNudgeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !nudge.Read {
		if err := s.db.Model(&nudge).Update("read", true).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		nudge.Read = true
	}
	return &nudge, nil
}

func (s *nudgeService) totalSaved(userID string) (float64, error) {
	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var total float64
	for _, goal := range goals {
		total += goal.CurrentAmount
	}
	return total, nil
}

func (s *nudgeService) loadCheckpoint(userID string) (*models.SavingsCheckpoint, error) {
	var checkpoint models.SavingsCheckpoint
	err := s.db.Where("user_id = ?", userID).First(&checkpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SavingsCheckpoint{UserID: userID}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &checkpoint, nil
}

func (s *nudgeService) saveCheckpoint(tx *gorm.DB, checkpoint *models.SavingsCheckpoint, total float64) error {
	checkpoint.PreviousTotal = total
	if err := tx.Save(checkpoint).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// trimHistory deletes everything beyond the newest nudgeHistoryCap entries.
func (s *nudgeService) trimHistory(tx *gorm.DB, userID string) error {
	var keep []string
	if err := tx.Model(&models.Nudge{}).
		Where("user_id = ?", userID).
		Order("date DESC, id ASC").
		Limit(nudgeHistoryCap).
		Pluck("id", &keep).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(keep) < nudgeHistoryCap {
		return nil
	}
	if err := tx.Where("user_id = ? AND id NOT IN ?", userID, keep).
		Delete(&models.Nudge{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// truncateMessage shortens a message to limit runes for toast display.
func truncateMessage(message string, limit int) string {
	runes := []rune(message)
	if len(runes) <= limit {
		return message
	}
	return string(runes[:limit]) + "..."
}
