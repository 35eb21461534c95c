package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finpal/internal/errors"
	"finpal/internal/metrics"
	"finpal/internal/models"
	"finpal/internal/pagination"
)

// assistantService implements the rule-based chat assistant. Replies are
// templated from live store snapshots; nothing leaves the process.
type assistantService struct {
	db *gorm.DB
}

// NewAssistantService creates a new AssistantServicer.
func NewAssistantService(db *gorm.DB) AssistantServicer {
	return &assistantService{db: db}
}

// Respond persists the user's message, builds a reply from the current
// metrics snapshot, persists it, and returns both. The user message is
// stored with read status since the assistant consumes it synchronously.
func (s *assistantService) Respond(userID, text string) (*models.ChatMessage, *models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message cannot be empty")
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, nil, apperrors.ErrUserNotFound
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	userMessage := &models.ChatMessage{
		UserID:    userID,
		Content:   text,
		Sender:    models.ChatSenderUser,
		Timestamp: now,
		Status:    models.ChatStatusRead,
	}
	reply := &models.ChatMessage{
		UserID:    userID,
		Content:   buildReply(&user, transactions, goals, text),
		Sender:    models.ChatSenderAssistant,
		Timestamp: now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMessage).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(reply).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return userMessage, reply, nil
}

// GetHistory retrieves the conversation, oldest first within the page.
func (s *assistantService) GetHistory(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ChatMessage], error) {
	page.Defaults()

	base := s.db.Model(&models.ChatMessage{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var messages []models.ChatMessage
	if err := base.Scopes(pagination.Paginate(page)).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(messages, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// containsAny reports whether input contains any of the keywords.
func containsAny(input string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(input, keyword) {
			return true
		}
	}
	return false
}

// buildReply matches the lowered input against ordered keyword groups; the
// first matching group wins, so the order here is part of the contract.
func buildReply(user *models.User, transactions []models.Transaction, goals []models.SavingsGoal, text string) string {
	input := strings.ToLower(text)

	totalBalance := metrics.TotalBalance(transactions)
	totalIncome := metrics.TotalIncome(transactions)
	totalExpenses := metrics.TotalExpenses(transactions)
	needsSpend := metrics.SpendByType(transactions, models.TransactionTypeNeed)
	wantsSpend := metrics.SpendByType(transactions, models.TransactionTypeWant)

	switch {
	case containsAny(input, "balance", "how much", "money", "total"):
		return fmt.Sprintf("Your current balance is %s. You've earned %s and spent %s in total.",
			formatINR(totalBalance), formatINR(totalIncome), formatINR(totalExpenses))

	case containsAny(input, "needs", "necessities", "essential"):
		return fmt.Sprintf("You've spent %s on essential needs (%d%% of your expenses). This includes groceries, rent, utilities, and other necessities.",
			formatINR(needsSpend), percentOf(needsSpend, totalExpenses))

	case containsAny(input, "wants", "discretionary", "non-essential"):
		return fmt.Sprintf("You've spent %s on wants (%d%% of your expenses). This includes dining out, entertainment, shopping, and other non-essential items.",
			formatINR(wantsSpend), percentOf(wantsSpend, totalExpenses))

	case containsAny(input, "budget", "spending"):
		needsPercent := percentOf(needsSpend, totalExpenses)
		wantsPercent := percentOf(wantsSpend, totalExpenses)
		reply := fmt.Sprintf("Based on your recent transactions, you've spent %s. That's split between %s (%d%%) for needs and %s (%d%%) for wants. I recommend keeping wants under 30%% of your total spending.",
			formatINR(totalExpenses), formatINR(needsSpend), needsPercent, formatINR(wantsSpend), wantsPercent)
		if wantsPercent > 30 {
			reply += " Currently, your wants spending is above the recommended level. Consider reducing discretionary expenses to improve your financial health."
		} else {
			reply += " Great job keeping your wants spending in check!"
		}
		return reply

	case containsAny(input, "saving", "goals"):
		if len(goals) == 0 {
			return "You don't have any savings goals set up yet. Would you like to create one?"
		}
		completed := 0
		var topGoal *models.SavingsGoal
		for i := range goals {
			if goals[i].Completed {
				completed++
			} else if topGoal == nil {
				topGoal = &goals[i]
			}
		}
		reply := fmt.Sprintf("You have %d savings goals, with %d already completed.", len(goals), completed)
		if topGoal != nil {
			progress := percentOf(topGoal.CurrentAmount, topGoal.TargetAmount)
			reply += fmt.Sprintf(" Your %q goal is currently at %d%% completion (%s of %s).",
				topGoal.Title, progress, formatINR(topGoal.CurrentAmount), formatINR(topGoal.TargetAmount))
		}
		return reply

	case containsAny(input, "top", "category", "categories", "expense", "cost"):
		topCategories := metrics.TopCategories(transactions, 3)
		if len(topCategories) == 0 {
			return "You don't have any recorded expenses yet. Try adding some transactions first!"
		}
		parts := make([]string, len(topCategories))
		for i, entry := range topCategories {
			parts[i] = fmt.Sprintf("%s: %s", entry.Category, formatINR(entry.Amount))
		}
		return fmt.Sprintf("Your top spending categories are: %s. Would you like to see a detailed breakdown of all your expenses?",
			strings.Join(parts, ", "))

	case containsAny(input, "income", "salary", "earn"):
		return fmt.Sprintf("Your total income is %s. This represents all your incoming cash flow.", formatINR(totalIncome))

	case containsAny(input, "hello", "hi", "hey", "start"):
		return fmt.Sprintf(`Hello %s! I'm your financial assistant. Here's a quick overview of your finances:

- Current balance: %s
- Total income: %s
- Total expenses: %s
- Needs spending: %s
- Wants spending: %s

How can I help you today? You can ask about your balance, spending details, budgeting advice, or savings goals.`,
			user.Name, formatINR(totalBalance), formatINR(totalIncome), formatINR(totalExpenses),
			formatINR(needsSpend), formatINR(wantsSpend))

	case containsAny(input, "thank"):
		return fmt.Sprintf("You're welcome, %s! Is there anything else I can help you with?", user.Name)

	case containsAny(input, "advice", "tip", "help"):
		switch {
		case wantsSpend > needsSpend:
			return fmt.Sprintf("I notice you're spending more on wants (%s) than needs (%s). Financial experts typically recommend following the 50/30/20 rule: 50%% on needs, 30%% on wants, and 20%% on savings. Try to prioritize essential expenses and cut back on discretionary spending.",
				formatINR(wantsSpend), formatINR(needsSpend))
		case totalExpenses > totalIncome:
			return fmt.Sprintf("You're currently spending more (%s) than you earn (%s). To avoid going into debt, consider reducing expenses, particularly in non-essential categories like entertainment and dining out, or look for ways to increase your income.",
				formatINR(totalExpenses), formatINR(totalIncome))
		case len(goals) == 0:
			return "You're doing well with your spending, but I don't see any savings goals set up. Setting specific financial goals can help you stay motivated and track your progress. Would you like to create a savings goal?"
		default:
			return "Based on your financial profile, you're managing your money well! To optimize further, consider automating your savings, setting up an emergency fund (if you haven't already), and exploring investment options for any extra cash. Is there a specific area where you'd like more detailed advice?"
		}

	default:
		return fmt.Sprintf(`Thanks for your message, %s! Here's your current financial snapshot:

- Balance: %s
- Recent spending on needs: %s
- Recent spending on wants: %s

What aspect of your finances would you like to discuss? I can help with budget analysis, savings planning, or spending insights.`,
			user.Name, formatINR(totalBalance), formatINR(needsSpend), formatINR(wantsSpend))
	}
}

// percentOf returns part as a rounded percentage of whole, 0 when whole is 0.
func percentOf(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}
