package service

import (
	"math"

	"github.com/rithankoushik/fitz-cli/internal/model"
)

type ProgressBand string

const (
	BandFavorable ProgressBand = "favorable"
	BandCaution   ProgressBand = "caution"
	BandOver      ProgressBand = "over"
)

func ClassifyProgress(percent int) ProgressBand {
	switch {
	case percent >= 100:
		return BandOver
	case percent >= 80:
		return BandCaution
	default:
		return BandFavorable
	}
}

type MacroProgress struct {
	Name      string       `json:"name"`
	Unit      string       `json:"unit"`
	Current   float64      `json:"current"`
	Goal      float64      `json:"goal"`
	Percent   int          `json:"percent"`
	Band      ProgressBand `json:"band"`
	Remaining float64      `json:"remaining"`
}

type DailySummary struct {
	Date              string                               `json:"date"`
	Totals            model.MacroValues                    `json:"totals"`
	MealTotals        map[model.MealType]model.MacroValues `json:"meal_totals"`
	Progress          []MacroProgress                      `json:"progress"`
	RemainingCalories *float64                             `json:"remaining_calories,omitempty"`
}

// Summarize derives totals and goal progress. Progress is always ordered
// calories, protein, carbs, fat.
func Summarize(l *model.DailyLog, goals model.DailyGoals) DailySummary {
	var totals model.MacroValues
	out := DailySummary{}
	if l != nil {
		totals = l.TotalMacros
		out.Date = l.Date
	}
	out.Totals = totals
	out.MealTotals = MealTotals(l)

	out.Progress = []MacroProgress{
		progressFor("Calories", "kcal", math.Round(totals.Calories), goals.Calories),
		progressFor("Protein", "g", RoundTenth(totals.Protein), goals.Protein),
		progressFor("Carbs", "g", RoundTenth(totals.Carbs), goals.Carbs),
		progressFor("Fat", "g", RoundTenth(totals.Fat), goals.Fat),
	}

	if totals.Calories > 0 {
		remaining := math.Round(Remaining(goals.Calories, totals.Calories))
		out.RemainingCalories = &remaining
	}
	return out
}

func progressFor(name, unit string, current, goal float64) MacroProgress {
	return MacroProgress{
		Name:      name,
		Unit:      unit,
		Current:   current,
		Goal:      goal,
		Percent:   ProgressPercent(current, goal),
		Band:      ClassifyProgress(rawPercent(current, goal)),
		Remaining: Remaining(goal, current),
	}
}

// RoundTenth rounds to one decimal place, as gram figures are displayed.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
