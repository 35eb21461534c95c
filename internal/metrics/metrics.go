// Package metrics derives financial aggregates from transaction snapshots.
// Every function is pure: identical input always yields identical output,
// and nothing here touches storage.
package metrics

import (
	"math"
	"sort"
	"time"

	"finpal/internal/models"
)

// TotalBalance returns the signed sum of all transaction amounts.
func TotalBalance(txs []models.Transaction) float64 {
	var sum float64
	for _, tx := range txs {
		sum += tx.Amount
	}
	return sum
}

// TotalIncome returns the sum of all positive amounts.
func TotalIncome(txs []models.Transaction) float64 {
	var sum float64
	for _, tx := range txs {
		if tx.Amount > 0 {
			sum += tx.Amount
		}
	}
	return sum
}

// TotalExpenses returns the absolute sum of all negative amounts.
func TotalExpenses(txs []models.Transaction) float64 {
	var sum float64
	for _, tx := range txs {
		if tx.Amount < 0 {
			sum += math.Abs(tx.Amount)
		}
	}
	return sum
}

// SpendByType returns the absolute expense sum for transactions of the
// given type. Positive amounts are excluded even when they carry a
// need/want tag, so mislabelled income never counts as spending.
func SpendByType(txs []models.Transaction, t models.TransactionType) float64 {
	var sum float64
	for _, tx := range txs {
		if tx.Type == t && tx.Amount < 0 {
			sum += math.Abs(tx.Amount)
		}
	}
	return sum
}

// CategorySpend returns the absolute expense sum for the given category.
func CategorySpend(txs []models.Transaction, c models.TransactionCategory) float64 {
	var sum float64
	for _, tx := range txs {
		if tx.Category == c && tx.Amount < 0 {
			sum += math.Abs(tx.Amount)
		}
	}
	return sum
}

// SpendPerCategory returns the absolute expense sum per category.
func SpendPerCategory(txs []models.Transaction) map[models.TransactionCategory]float64 {
	spend := make(map[models.TransactionCategory]float64)
	for _, tx := range txs {
		if tx.Amount < 0 {
			spend[tx.Category] += math.Abs(tx.Amount)
		}
	}
	return spend
}

// Recent returns the transactions dated within [now - windowDays, now].
func Recent(txs []models.Transaction, windowDays int, now time.Time) []models.Transaction {
	cutoff := now.AddDate(0, 0, -windowDays)
	var recent []models.Transaction
	for _, tx := range txs {
		if !tx.Date.Before(cutoff) && !tx.Date.After(now) {
			recent = append(recent, tx)
		}
	}
	return recent
}

// TopSpendingCategory returns the category with the highest absolute
// expense sum. ok is false when there are no expenses.
func TopSpendingCategory(txs []models.Transaction) (category models.TransactionCategory, amount float64, ok bool) {
	for cat, spend := range SpendPerCategory(txs) {
		if spend > amount || (spend == amount && ok && cat < category) {
			category, amount, ok = cat, spend, true
		}
	}
	return category, amount, ok
}

// CategoryAmount pairs a category with its spend, for ranked summaries.
type CategoryAmount struct {
	Category models.TransactionCategory `json:"category"`
	Amount   float64                    `json:"amount"`
}

// TopCategories returns up to n categories ranked by spend, highest first.
// Ties break alphabetically so the ranking is deterministic.
func TopCategories(txs []models.Transaction, n int) []CategoryAmount {
	spend := SpendPerCategory(txs)
	ranked := make([]CategoryAmount, 0, len(spend))
	for cat, amount := range spend {
		ranked = append(ranked, CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
