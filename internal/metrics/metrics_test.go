package metrics

import (
	"testing"
	"time"

	"finpal/internal/models"
)

func fixture() []models.Transaction {
	return []models.Transaction{
		{Amount: 1000, Category: models.CategorySalary, Type: models.TransactionTypeIncome},
		{Amount: -300, Category: models.CategoryRent, Type: models.TransactionTypeNeed},
		{Amount: -150, Category: models.CategoryFood, Type: models.TransactionTypeNeed},
		{Amount: -50, Category: models.CategoryEntertainment, Type: models.TransactionTypeWant},
	}
}

func TestTotals(t *testing.T) {
	txs := fixture()

	if got := TotalBalance(txs); got != 500 {
		t.Errorf("TotalBalance = %v, want 500", got)
	}
	if got := TotalIncome(txs); got != 1000 {
		t.Errorf("TotalIncome = %v, want 1000", got)
	}
	if got := TotalExpenses(txs); got != 500 {
		t.Errorf("TotalExpenses = %v, want 500", got)
	}
}

func TestTotalsEmpty(t *testing.T) {
	if got := TotalBalance(nil); got != 0 {
		t.Errorf("TotalBalance(nil) = %v, want 0", got)
	}
	if got := TotalExpenses(nil); got != 0 {
		t.Errorf("TotalExpenses(nil) = %v, want 0", got)
	}
}

func TestSpendByType(t *testing.T) {
	txs := fixture()

	if got := SpendByType(txs, models.TransactionTypeNeed); got != 450 {
		t.Errorf("needs spend = %v, want 450", got)
	}
	if got := SpendByType(txs, models.TransactionTypeWant); got != 50 {
		t.Errorf("wants spend = %v, want 50", got)
	}

	// A positive amount tagged as a need is income, not spending.
	txs = append(txs, models.Transaction{Amount: 200, Type: models.TransactionTypeNeed})
	if got := SpendByType(txs, models.TransactionTypeNeed); got != 450 {
		t.Errorf("positive amounts must not count as spend, got %v", got)
	}
}

func TestCategorySpend(t *testing.T) {
	txs := fixture()

	if got := CategorySpend(txs, models.CategoryRent); got != 300 {
		t.Errorf("rent spend = %v, want 300", got)
	}
	if got := CategorySpend(txs, models.CategoryTravel); got != 0 {
		t.Errorf("unused category spend = %v, want 0", got)
	}
	// Income categories never register spend.
	if got := CategorySpend(txs, models.CategorySalary); got != 0 {
		t.Errorf("salary spend = %v, want 0", got)
	}
}

func TestRecent(t *testing.T) {
	now := time.Now()
	txs := []models.Transaction{
		{Description: "inside", Date: now.AddDate(0, 0, -3)},
		{Description: "boundary", Date: now.AddDate(0, 0, -7)},
		{Description: "outside", Date: now.AddDate(0, 0, -8)},
		{Description: "future", Date: now.Add(time.Hour)},
	}

	recent := Recent(txs, 7, now)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent transactions, got %d", len(recent))
	}
	for _, tx := range recent {
		if tx.Description == "outside" || tx.Description == "future" {
			t.Errorf("%q should be excluded from the window", tx.Description)
		}
	}
}

func TestTopSpendingCategory(t *testing.T) {
	t.Run("picks_highest", func(t *testing.T) {
		cat, amount, ok := TopSpendingCategory(fixture())
		if !ok {
			t.Fatal("expected a top category")
		}
		if cat != models.CategoryRent || amount != 300 {
			t.Errorf("got %s/%v, want rent/300", cat, amount)
		}
	})

	t.Run("no_expenses", func(t *testing.T) {
		txs := []models.Transaction{{Amount: 1000, Category: models.CategorySalary}}
		if _, _, ok := TopSpendingCategory(txs); ok {
			t.Error("expected ok=false with no expenses")
		}
	})

	t.Run("tie_breaks_alphabetically", func(t *testing.T) {
		txs := []models.Transaction{
			{Amount: -100, Category: models.CategoryShopping},
			{Amount: -100, Category: models.CategoryFood},
		}
		cat, _, ok := TopSpendingCategory(txs)
		if !ok || cat != models.CategoryFood {
			t.Errorf("expected food on a tie, got %s", cat)
		}
	})
}

func TestTopCategories(t *testing.T) {
	txs := fixture()

	ranked := TopCategories(txs, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	if ranked[0].Category != models.CategoryRent || ranked[1].Category != models.CategoryFood {
		t.Errorf("unexpected ranking: %+v", ranked)
	}

	if got := TopCategories(nil, 3); len(got) != 0 {
		t.Errorf("expected empty ranking for no transactions, got %+v", got)
	}
}
