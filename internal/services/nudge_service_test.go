package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"finpal/internal/models"
	"finpal/internal/testutil"

	"gorm.io/gorm"
)

func newNudgeService(t *testing.T) (NudgeServicer, *models.User, *gorm.DB, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewNudgeService(db)
	user := testutil.CreateTestUser(t, db)
	return svc, user, db, func() { testutil.TeardownTestDB(t, db) }
}

// createExpense inserts a spending transaction with a fixed description.
func createExpense(t *testing.T, db *gorm.DB, userID, description string, category models.TransactionCategory, amount float64, date time.Time) {
	t.Helper()
	tx := &models.Transaction{
		UserID:      userID,
		Amount:      -amount,
		Description: description,
		Date:        date,
		Category:    category,
		Type:        models.TransactionTypeWant,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	now := time.Now()

	t.Run("quiet_week_only_challenge_tip", func(t *testing.T) {
		svc, user, _, teardown := newNudgeService(t)
		defer teardown()

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		if len(run.Created) != 1 {
			t.Fatalf("expected only the savings challenge tip, got %+v", run.Created)
		}
		if run.Created[0].Type != models.NudgeTypeTip {
			t.Errorf("expected a tip nudge, got %q", run.Created[0].Type)
		}
		if !strings.Contains(run.Created[0].Message, "₹100") {
			t.Errorf("expected full challenge target in message, got %q", run.Created[0].Message)
		}
	})

	t.Run("top_category_warning_above_threshold", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "New shoes", models.CategoryShopping, 80, now)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		found := false
		for _, n := range run.Created {
			if n.Type == models.NudgeTypeWarning && strings.Contains(n.Message, "shopping") {
				found = true
				if !strings.Contains(n.Message, "₹80") {
					t.Errorf("expected amount in message, got %q", n.Message)
				}
			}
		}
		if !found {
			t.Errorf("expected top category warning, got %+v", run.Created)
		}
	})

	t.Run("top_category_at_threshold_stays_quiet", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "Socks", models.CategoryShopping, 50, now)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		for _, n := range run.Created {
			if strings.Contains(n.Message, "shopping") {
				t.Errorf("threshold is exclusive, got %q", n.Message)
			}
		}
	})

	t.Run("food_delivery_crosses_warn_threshold", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "Food delivery order", models.CategoryFood, 25.99, now)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)
		for _, n := range run.Created {
			if strings.Contains(n.Message, "food delivery") {
				t.Fatalf("25.99 is under the threshold, got %q", n.Message)
			}
		}

		createExpense(t, db, user.ID, "Food delivery order", models.CategoryFood, 10, now)

		run, err = svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)
		found := false
		for _, n := range run.Created {
			if n.Type == models.NudgeTypeWarning && strings.Contains(n.Message, "food delivery") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected delivery warning at 35.99, got %+v", run.Created)
		}
		if len(run.Alerts) != 0 {
			t.Errorf("no immediate alert below the alert threshold, got %+v", run.Alerts)
		}
	})

	t.Run("food_delivery_alert_above_hundred", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "Weekend delivery binge", models.CategoryFood, 120, now)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		found := false
		for _, alert := range run.Alerts {
			if strings.Contains(alert, "food delivery") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected immediate delivery alert, got %+v", run.Alerts)
		}
	})

	t.Run("spending_trend_info", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		for i := 0; i < 4; i++ {
			createExpense(t, db, user.ID, "Gadget", models.CategoryOther, 60, now)
		}

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		found := false
		for _, n := range run.Created {
			if n.Type == models.NudgeTypeInfo && strings.Contains(n.Message, "trending higher") {
				found = true
				if !strings.Contains(n.Message, "₹240") {
					t.Errorf("expected week spend in message, got %q", n.Message)
				}
			}
		}
		if !found {
			t.Errorf("expected trend info nudge, got %+v", run.Created)
		}
	})

	t.Run("net_positive_week_achievement", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		salary := &models.Transaction{
			UserID: user.ID, Amount: 1000, Description: "Salary",
			Date: now, Category: models.CategorySalary, Type: models.TransactionTypeIncome,
		}
		testutil.AssertNoError(t, db.Create(salary).Error)
		createExpense(t, db, user.ID, "Lunch", models.CategoryFood, 40, now)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		found := false
		for _, n := range run.Created {
			if n.Type == models.NudgeTypeAchievement && strings.Contains(n.Message, "spent less than you earned") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected net-positive achievement, got %+v", run.Created)
		}
	})

	t.Run("old_transactions_outside_window_ignored", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "Old shopping spree", models.CategoryShopping, 400, now.AddDate(0, 0, -10))

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)
		for _, n := range run.Created {
			if strings.Contains(n.Message, "in the past week") {
				t.Errorf("ten-day-old spending must not trip weekly heuristics: %q", n.Message)
			}
		}
	})

	t.Run("all_time_category_alert", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		// Outside the weekly window but over the all-time food threshold.
		createExpense(t, db, user.ID, "Restaurant month", models.CategoryFood, 250, now.AddDate(0, 0, -20))

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		found := false
		for _, n := range run.Created {
			if n.Type == models.NudgeTypeWarning && strings.Contains(n.Message, "Spending Alert") {
				found = true
				if !strings.Contains(n.Message, "food") {
					t.Errorf("expected food category in alert, got %q", n.Message)
				}
			}
		}
		if !found {
			t.Errorf("expected all-time category alert, got %+v", run.Created)
		}
	})

	t.Run("weekly_challenge_completes_and_checkpoint_advances", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		// Baseline run records the checkpoint at zero saved.
		_, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		testutil.CreateTestGoal(t, db, user.ID, 1000, 150)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		found := false
		for _, n := range run.Created {
			if n.Type == models.NudgeTypeAchievement && strings.Contains(n.Message, "Challenge Complete") {
				found = true
				if !strings.Contains(n.Message, "₹150") {
					t.Errorf("expected saved amount in message, got %q", n.Message)
				}
			}
		}
		if !found {
			t.Fatalf("expected challenge completion, got %+v", run.Created)
		}
		if len(run.Alerts) != 1 || !strings.Contains(run.Alerts[0], "Challenge Completed") {
			t.Errorf("expected completion alert, got %+v", run.Alerts)
		}

		// Checkpoint advanced: without new savings the next run is a tip again.
		run, err = svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)
		for _, n := range run.Created {
			if strings.Contains(n.Message, "Challenge Complete") {
				t.Errorf("challenge must not complete twice off the same savings: %q", n.Message)
			}
		}
	})

	t.Run("history_capped_at_ten_newest_kept", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "New shoes", models.CategoryShopping, 80, now)

		// Each run creates the top-category warning plus the challenge tip.
		for i := 0; i < 7; i++ {
			_, err := svc.Generate(user.ID, now.Add(time.Duration(i)*time.Minute))
			testutil.AssertNoError(t, err)
		}

		nudges, err := svc.GetUserNudges(user.ID)
		testutil.AssertNoError(t, err)
		if len(nudges) != 10 {
			t.Fatalf("expected history capped at 10, got %d", len(nudges))
		}

		var count int64
		db.Model(&models.Nudge{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 10 {
			t.Errorf("expected trimmed rows deleted, found %d", count)
		}

		// Newest run's nudges head the list.
		if nudges[0].Date.Before(now.Add(5 * time.Minute)) {
			t.Errorf("expected newest nudge first, got date %v", nudges[0].Date)
		}
	})

	t.Run("notification_truncated_for_toast", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		createExpense(t, db, user.ID, "New shoes", models.CategoryShopping, 80, now)

		run, err := svc.Generate(user.ID, now)
		testutil.AssertNoError(t, err)

		if run.Notification == "" {
			t.Fatal("expected a notification for the first created nudge")
		}
		if !strings.HasPrefix(run.Created[0].Message, strings.TrimSuffix(run.Notification, "...")) {
			t.Errorf("notification %q is not a prefix of %q", run.Notification, run.Created[0].Message)
		}
		if utf8.RuneCountInString(run.Notification) > 63 {
			t.Errorf("notification too long: %d runes", utf8.RuneCountInString(run.Notification))
		}
	})
}

func TestGetUserNudges(t *testing.T) {
	svc, user, db, teardown := newNudgeService(t)
	defer teardown()

	now := time.Now()
	testutil.CreateTestNudge(t, db, user.ID, models.NudgeTypeInfo, now.Add(-time.Hour))
	newest := testutil.CreateTestNudge(t, db, user.ID, models.NudgeTypeWarning, now)

	nudges, err := svc.GetUserNudges(user.ID)
	testutil.AssertNoError(t, err)
	if len(nudges) != 2 {
		t.Fatalf("expected 2 nudges, got %d", len(nudges))
	}
	if nudges[0].ID != newest.ID {
		t.Error("expected newest nudge first")
	}
}

func TestMarkRead(t *testing.T) {
	t.Run("flips_read_flag", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		nudge := testutil.CreateTestNudge(t, db, user.ID, models.NudgeTypeInfo, time.Now())
		if nudge.Read {
			t.Fatal("precondition: nudge starts unread")
		}

		updated, err := svc.MarkRead(user.ID, nudge.ID)
		testutil.AssertNoError(t, err)
		if !updated.Read {
			t.Error("expected nudge marked read")
		}

		// Idempotent.
		updated, err = svc.MarkRead(user.ID, nudge.ID)
		testutil.AssertNoError(t, err)
		if !updated.Read {
			t.Error("expected nudge to stay read")
		}
	})

	t.Run("unknown_nudge", func(t *testing.T) {
		svc, user, _, teardown := newNudgeService(t)
		defer teardown()

		_, err := svc.MarkRead(user.ID, "missing-id")
		testutil.AssertAppError(t, err, "NUDGE_NOT_FOUND")
	})

	t.Run("other_users_nudge", func(t *testing.T) {
		svc, user, db, teardown := newNudgeService(t)
		defer teardown()

		other := testutil.CreateTestUser(t, db)
		nudge := testutil.CreateTestNudge(t, db, other.ID, models.NudgeTypeInfo, time.Now())

		_, err := svc.MarkRead(user.ID, nudge.ID)
		testutil.AssertAppError(t, err, "NUDGE_NOT_FOUND")
	})
}
