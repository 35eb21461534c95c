package models

import "time"

// TransactionType classifies a transaction independently of its sign.
// Need/want apply to expenses (essential vs. discretionary spending).
type TransactionType string

const (
	TransactionTypeNeed    TransactionType = "need"
	TransactionTypeWant    TransactionType = "want"
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionCategory tags a transaction with a spending category.
type TransactionCategory string

// Canonical category set. The legacy tags transportation, housing and
// healthcare are accepted on input and folded into transport, rent and
// health by NormalizeCategory.
const (
	CategoryFood          TransactionCategory = "food"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryTransport     TransactionCategory = "transport"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryUtilities     TransactionCategory = "utilities"
	CategoryRent          TransactionCategory = "rent"
	CategoryGroceries     TransactionCategory = "groceries"
	CategoryHealth        TransactionCategory = "health"
	CategoryEducation     TransactionCategory = "education"
	CategorySalary        TransactionCategory = "salary"
	CategoryInvestment    TransactionCategory = "investment"
	CategoryPersonal      TransactionCategory = "personal"
	CategoryTravel        TransactionCategory = "travel"
	CategoryOther         TransactionCategory = "other"
)

// categoryAliases maps legacy tags to their canonical category.
var categoryAliases = map[TransactionCategory]TransactionCategory{
	"transportation": CategoryTransport,
	"housing":        CategoryRent,
	"healthcare":     CategoryHealth,
}

var canonicalCategories = map[TransactionCategory]bool{
	CategoryFood: true, CategoryShopping: true, CategoryTransport: true,
	CategoryEntertainment: true, CategoryUtilities: true, CategoryRent: true,
	CategoryGroceries: true, CategoryHealth: true, CategoryEducation: true,
	CategorySalary: true, CategoryInvestment: true, CategoryPersonal: true,
	CategoryTravel: true, CategoryOther: true,
}

// NormalizeCategory resolves aliases and reports whether the category is known.
func NormalizeCategory(c TransactionCategory) (TransactionCategory, bool) {
	if canonical, ok := categoryAliases[c]; ok {
		return canonical, true
	}
	if canonicalCategories[c] {
		return c, true
	}
	return c, false
}

// Transaction represents a single income or expense record. Negative
// amounts are outflows, positive amounts are inflows.
type Transaction struct {
	Base
	UserID      string              `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      float64             `gorm:"not null" json:"amount"`
	Description string              `json:"description"`
	Date        time.Time           `gorm:"not null;index" json:"date"`
	Category    TransactionCategory `gorm:"not null" json:"category"`
	Type        TransactionType     `gorm:"not null" json:"type"`
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool { return t.Amount < 0 }
