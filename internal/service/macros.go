package service

import (
	"math"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

// ScaleMacros converts a per-100g profile to the given quantity. No rounding is applied.
func ScaleMacros(p model.FoodProfile, grams float64) model.MacroValues {
	return model.MacroValues{
		Calories: p.Calories * grams / 100,
		Protein:  p.Protein * grams / 100,
		Carbs:    p.Carbs * grams / 100,
		Fat:      p.Fat * grams / 100,
	}
}

// ProgressPercent is the display percentage of goal, in [0,100]. A zero goal yields 0.
func ProgressPercent(current, goal float64) int {
	pct := rawPercent(current, goal)
	if pct > 100 {
		return 100
	}
	return pct
}

func rawPercent(current, goal float64) int {
	if goal == 0 {
		return 0
	}
	pct := math.Round(current * 100 / goal)
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// Remaining may be negative when current exceeds goal.
func Remaining(goal, current float64) float64 {
	return goal - current
}

// TotalMacros sums every entry across all meal buckets.
func TotalMacros(l *model.DailyLog) model.MacroValues {
	var total model.MacroValues
	if l == nil {
		return total
	}
	for _, meal := range model.MealTypes {
		for _, e := range l.Entries(meal) {
			total = total.Add(e.MacroValues)
		}
	}
	return total
}

func MealTotals(l *model.DailyLog) map[model.MealType]model.MacroValues {
	out := make(map[model.MealType]model.MacroValues, len(model.MealTypes))
	for _, meal := range model.MealTypes {
		var sum model.MacroValues
		for _, e := range l.Entries(meal) {
			sum = sum.Add(e.MacroValues)
		}
		out[meal] = sum
	}
	return out
}

func ValidateQuantity(grams float64) error {
	if math.IsNaN(grams) || math.IsInf(grams, 0) {
		return errs.Invalid("quantity", "must be a finite number")
	}
	if grams <= 0 {
		return errs.Invalid("quantity", "must be > 0")
	}
	return nil
}

func ValidateGoals(g model.DailyGoals) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", g.Calories},
		{"protein", g.Protein},
		{"carbs", g.Carbs},
		{"fat", g.Fat},
	}
	for _, f := range fields {
		if err := validateNonNegativeFloat(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}
