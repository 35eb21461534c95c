package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "finpal/internal/errors"
	"finpal/internal/logger"
	"finpal/internal/metrics"
	"finpal/internal/models"
	"finpal/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db           *gorm.DB
	nudgeService NudgeServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, nudgeService NudgeServicer) TransactionServicer {
	return &transactionService{
		db:           db,
		nudgeService: nudgeService,
	}
}

// CreateTransaction records a new transaction and synchronously regenerates
// the user's nudges.
func (s *transactionService) CreateTransaction(
	userID, description string,
	amount float64,
	category models.TransactionCategory,
	txType models.TransactionType,
	date time.Time,
) (*models.Transaction, *NudgeRun, error) {
	if amount == 0 {
		return nil, nil, apperrors.ErrZeroAmount
	}

	canonical, ok := models.NormalizeCategory(category)
	if !ok {
		return nil, nil, apperrors.ErrUnknownCategory
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Date:        date,
		Category:    canonical,
		Type:        txType,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	run := s.regenerateNudges(userID)
	return transaction, run, nil
}

// UpdateTransaction merges the provided fields into the matching record.
// An unknown id is a silent no-op: nil transaction, no error, nothing
// persisted. Nudges are regenerated either way.
func (s *transactionService) UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, *NudgeRun, error) {
	var transaction models.Transaction
	err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.regenerateNudges(userID), nil
	}
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]any{}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Amount != nil {
		if *update.Amount == 0 {
			return nil, nil, apperrors.ErrZeroAmount
		}
		updates["amount"] = *update.Amount
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Category != nil {
		canonical, ok := models.NormalizeCategory(*update.Category)
		if !ok {
			return nil, nil, apperrors.ErrUnknownCategory
		}
		updates["category"] = canonical
	}
	if update.Type != nil {
		updates["type"] = *update.Type
	}

	if len(updates) > 0 {
		if err := s.db.Model(&transaction).Updates(updates).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	run := s.regenerateNudges(userID)
	return &transaction, run, nil
}

// DeleteTransaction removes the matching record. An unknown id is a
// silent no-op.
func (s *transactionService) DeleteTransaction(userID, transactionID string) (*NudgeRun, error) {
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).
		Delete(&models.Transaction{}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.regenerateNudges(userID), nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		canonical, _ := models.NormalizeCategory(*f.Category)
		q = q.Where("category = ?", canonical)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetSummary computes the derived metrics over the user's full history.
func (s *transactionService) GetSummary(userID string) (*Summary, error) {
	transactions, err := s.loadAll(userID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalBalance:  metrics.TotalBalance(transactions),
		TotalIncome:   metrics.TotalIncome(transactions),
		TotalExpenses: metrics.TotalExpenses(transactions),
		NeedsSpend:    metrics.SpendByType(transactions, models.TransactionTypeNeed),
		WantsSpend:    metrics.SpendByType(transactions, models.TransactionTypeWant),
		TopCategories: metrics.TopCategories(transactions, 3),
	}, nil
}

func (s *transactionService) loadAll(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// regenerateNudges runs nudge generation after a mutation. A failed run is
// logged and swallowed: advisory messages must never fail the mutation that
// triggered them.
func (s *transactionService) regenerateNudges(userID string) *NudgeRun {
	run, err := s.nudgeService.Generate(userID, time.Now())
	if err != nil {
		logger.Get().Warnw("nudge generation failed", "user_id", userID, "error", err)
		return &NudgeRun{}
	}
	return run
}
