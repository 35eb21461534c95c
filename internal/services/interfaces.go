package services

import (
	"time"

	"finpal/internal/metrics"
	"finpal/internal/models"
	"finpal/internal/pagination"
)

// ProfileUpdate holds optional profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	Name    *string
	Avatar  *string
	Phone   *string
	Bio     *string
	Premium *bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionUpdate holds optional transaction fields for partial updates.
type TransactionUpdate struct {
	Description *string
	Amount      *float64
	Date        *time.Time
	Category    *models.TransactionCategory
	Type        *models.TransactionType
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *models.TransactionCategory
}

// Summary aggregates the derived metrics for a user's full transaction history.
type Summary struct {
	TotalBalance  float64                  `json:"total_balance"`
	TotalIncome   float64                  `json:"total_income"`
	TotalExpenses float64                  `json:"total_expenses"`
	NeedsSpend    float64                  `json:"needs_spend"`
	WantsSpend    float64                  `json:"wants_spend"`
	TopCategories []metrics.CategoryAmount `json:"top_categories"`
}

// TransactionServicer defines the contract for transaction-related business
// logic. Mutations regenerate nudges synchronously and return the run result
// so callers never race a delayed background refresh.
type TransactionServicer interface {
	CreateTransaction(userID, description string, amount float64, category models.TransactionCategory, txType models.TransactionType, date time.Time) (*models.Transaction, *NudgeRun, error)
	UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, *NudgeRun, error)
	DeleteTransaction(userID, transactionID string) (*NudgeRun, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetSummary(userID string) (*Summary, error)
}

// GoalUpdate holds optional savings-goal fields for partial updates.
type GoalUpdate struct {
	Title         *string
	TargetAmount  *float64
	CurrentAmount *float64
	DueDate       *time.Time
	Label         *string
}

// Goal event kinds surfaced to the presentation layer.
const (
	EventGoalCompleted       = "goal_completed"
	EventAchievementUnlocked = "achievement_unlocked"
)

// GoalEvent is a one-shot celebratory event produced by a goal mutation.
type GoalEvent struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FundResult describes the outcome of funding a savings goal.
type FundResult struct {
	Goal             *models.SavingsGoal `json:"goal"`
	DebitTransaction *models.Transaction `json:"debit_transaction,omitempty"`
	Events           []GoalEvent         `json:"events,omitempty"`
}

// SavingsServicer defines the contract for savings-goal business logic.
type SavingsServicer interface {
	CreateGoal(userID, title string, targetAmount, currentAmount float64, dueDate *time.Time, label string) (*models.SavingsGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID string, update GoalUpdate) (*models.SavingsGoal, []GoalEvent, error)
	DeleteGoal(userID, goalID string) error
	FundGoal(userID, goalID string, amount float64, externalPayment bool, paymentRef string) (*FundResult, error)
	GetSavingsTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsTransaction], error)
}

// NudgeRun is the result of one nudge generation pass.
type NudgeRun struct {
	// Nudges is the persisted list after the run, newest first, capped.
	Nudges []models.Nudge `json:"nudges"`
	// Created holds only the nudges produced by this run.
	Created []models.Nudge `json:"created,omitempty"`
	// Alerts are immediate warnings that are surfaced but never persisted.
	Alerts []string `json:"alerts,omitempty"`
	// Notification is the newest nudge's message truncated for a toast,
	// empty when the run produced nothing.
	Notification string `json:"notification,omitempty"`
}

// NudgeServicer defines the contract for nudge generation and access.
type NudgeServicer interface {
	Generate(userID string, now time.Time) (*NudgeRun, error)
	GetUserNudges(userID string) ([]models.Nudge, error)
	MarkRead(userID, nudgeID string) (*models.Nudge, error)
}

// AssistantServicer defines the contract for the rule-based chat assistant.
type AssistantServicer interface {
	Respond(userID, text string) (userMessage, reply *models.ChatMessage, err error)
	GetHistory(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ChatMessage], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
