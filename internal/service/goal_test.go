package service_test

import (
	"testing"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

func TestGoalVersioningByEffectiveDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	if err := service.SetGoal(db, service.SetGoalInput{
		DailyGoals:    model.DailyGoals{Calories: 2000, Protein: 150, Carbs: 220, Fat: 70},
		EffectiveDate: "2026-01-01",
	}); err != nil {
		t.Fatalf("set first goal: %v", err)
	}
	if err := service.SetGoal(db, service.SetGoalInput{
		DailyGoals:    model.DailyGoals{Calories: 1800, Protein: 160, Carbs: 180, Fat: 60},
		EffectiveDate: "2026-02-01",
	}); err != nil {
		t.Fatalf("set second goal: %v", err)
	}

	january, err := service.CurrentGoal(db, "2026-01-15")
	if err != nil {
		t.Fatalf("current january goal: %v", err)
	}
	if january == nil || january.Calories != 2000 {
		t.Fatalf("expected january goal calories 2000, got %+v", january)
	}

	february, err := service.CurrentGoal(db, "2026-02-10")
	if err != nil {
		t.Fatalf("current february goal: %v", err)
	}
	if february == nil || february.Calories != 1800 {
		t.Fatalf("expected february goal calories 1800, got %+v", february)
	}

	history, err := service.GoalHistory(db)
	if err != nil {
		t.Fatalf("goal history: %v", err)
	}
	if len(history) != 2 || history[0].EffectiveDate != "2026-02-01" {
		t.Fatalf("expected newest goal first, got %+v", history)
	}
}

func TestGoalsForFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	goals, err := service.GoalsFor(db, "2026-01-15")
	if err != nil {
		t.Fatalf("goals for: %v", err)
	}
	if goals != model.DefaultGoals() {
		t.Fatalf("expected default goals, got %+v", goals)
	}
}

func TestSetGoalSameDateOverwrites(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	for _, kcal := range []float64{2000, 2200} {
		if err := service.SetGoal(db, service.SetGoalInput{
			DailyGoals:    model.DailyGoals{Calories: kcal, Protein: 150, Carbs: 250, Fat: 65},
			EffectiveDate: "2026-03-01",
		}); err != nil {
			t.Fatalf("set goal %v: %v", kcal, err)
		}
	}
	history, err := service.GoalHistory(db)
	if err != nil {
		t.Fatalf("goal history: %v", err)
	}
	if len(history) != 1 || history[0].Calories != 2200 {
		t.Fatalf("expected single overwritten goal, got %+v", history)
	}
}

func TestSetGoalRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	err := service.SetGoal(db, service.SetGoalInput{DailyGoals: model.DailyGoals{Calories: -5}})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error for negative calories, got %v", err)
	}
	err = service.SetGoal(db, service.SetGoalInput{DailyGoals: model.DefaultGoals(), EffectiveDate: "03/01/2026"})
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}
