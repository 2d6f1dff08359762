package models

import "testing"

func TestSetBudgetUpsert(t *testing.T) {
	db := newTestDB(t)

	if err := SetBudget(db, "user-1", CategoryFood, 5000); err != nil {
		t.Fatal(err)
	}
	if err := SetBudget(db, "user-1", CategoryShopping, 2000); err != nil {
		t.Fatal(err)
	}

	// Setting the same category again replaces the amount
	if err := SetBudget(db, "user-1", CategoryFood, 6000); err != nil {
		t.Fatal(err)
	}

	budgets, err := GetBudgets(db, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(budgets) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(budgets))
	}
	if budgets[CategoryFood] != 6000 {
		t.Errorf("expected Food budget 6000, got %f", budgets[CategoryFood])
	}
	if budgets[CategoryShopping] != 2000 {
		t.Errorf("expected Shopping budget 2000, got %f", budgets[CategoryShopping])
	}
}

func TestGetBudgetsScopedToUser(t *testing.T) {
	db := newTestDB(t)

	if err := SetBudget(db, "user-1", CategoryFood, 5000); err != nil {
		t.Fatal(err)
	}

	budgets, err := GetBudgets(db, "user-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(budgets) != 0 {
		t.Errorf("expected no budgets for other user, got %v", budgets)
	}
}

func TestDeleteAllBudgets(t *testing.T) {
	db := newTestDB(t)

	if err := SetBudget(db, "user-1", CategoryFood, 5000); err != nil {
		t.Fatal(err)
	}
	if err := DeleteAllBudgets(db, "user-1"); err != nil {
		t.Fatal(err)
	}

	budgets, err := GetBudgets(db, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(budgets) != 0 {
		t.Errorf("expected budgets to be deleted, got %v", budgets)
	}
}
