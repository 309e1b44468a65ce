package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

type SetGoalInput struct {
	model.DailyGoals
	EffectiveDate string
}

func SetGoal(db *sql.DB, in SetGoalInput) error {
	if err := ValidateGoals(in.DailyGoals); err != nil {
		return err
	}
	in.EffectiveDate = strings.TrimSpace(in.EffectiveDate)
	if in.EffectiveDate == "" {
		in.EffectiveDate = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, in.EffectiveDate); err != nil {
		return errs.Invalid("effective date", "invalid date %q (expected YYYY-MM-DD)", in.EffectiveDate)
	}

	_, err := db.Exec(`
INSERT INTO goals(calories, protein_g, carbs_g, fat_g, effective_date)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(effective_date) DO UPDATE SET
  calories=excluded.calories,
  protein_g=excluded.protein_g,
  carbs_g=excluded.carbs_g,
  fat_g=excluded.fat_g
`, in.Calories, in.Protein, in.Carbs, in.Fat, in.EffectiveDate)
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}

func CurrentGoal(db *sql.DB, date string) (*model.Goal, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, errs.Invalid("date", "invalid date %q (expected YYYY-MM-DD)", date)
	}

	var g model.Goal
	err := db.QueryRow(`
SELECT id, calories, protein_g, carbs_g, fat_g, effective_date, created_at
FROM goals
WHERE effective_date <= ?
ORDER BY effective_date DESC
LIMIT 1
`, date).Scan(&g.ID, &g.Calories, &g.Protein, &g.Carbs, &g.Fat, &g.EffectiveDate, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("current goal for %s: %w", date, err)
	}
	return &g, nil
}

// GoalsFor resolves the goals in effect on date, falling back to the defaults.
func GoalsFor(db *sql.DB, date string) (model.DailyGoals, error) {
	g, err := CurrentGoal(db, date)
	if err != nil {
		return model.DailyGoals{}, err
	}
	if g == nil {
		return model.DefaultGoals(), nil
	}
	return g.DailyGoals, nil
}

func GoalHistory(db *sql.DB) ([]model.Goal, error) {
	rows, err := db.Query(`
SELECT id, calories, protein_g, carbs_g, fat_g, effective_date, created_at
FROM goals
ORDER BY effective_date DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list goal history: %w", err)
	}
	defer rows.Close()

	goals := make([]model.Goal, 0)
	for rows.Next() {
		var g model.Goal
		if err := rows.Scan(&g.ID, &g.Calories, &g.Protein, &g.Carbs, &g.Fat, &g.EffectiveDate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan goal history: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal history: %w", err)
	}
	return goals, nil
}
