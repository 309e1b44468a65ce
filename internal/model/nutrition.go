package model

import (
	"fmt"
	"strings"
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

// MealTypes lists the meal buckets in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealSnacks, MealDinner}

func ParseMealType(raw string) (MealType, error) {
	m := MealType(strings.TrimSpace(strings.ToLower(raw)))
	if m == "snack" {
		m = MealSnacks
	}
	if !m.Valid() {
		return "", fmt.Errorf("invalid meal type %q (expected breakfast, lunch, snacks or dinner)", raw)
	}
	return m, nil
}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealSnacks, MealDinner:
		return true
	default:
		return false
	}
}

func (m MealType) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// MacroValues holds calories (kcal) and protein/carbs/fat (grams).
type MacroValues struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (v MacroValues) Add(o MacroValues) MacroValues {
	return MacroValues{
		Calories: v.Calories + o.Calories,
		Protein:  v.Protein + o.Protein,
		Carbs:    v.Carbs + o.Carbs,
		Fat:      v.Fat + o.Fat,
	}
}

// FoodProfile is a catalog entry with macros per 100g.
type FoodProfile struct {
	Name string `json:"name"`
	MacroValues
}

// LogEntry is one recorded consumption event. Macros are already scaled to QuantityGrams.
type LogEntry struct {
	FoodName      string     `json:"food_name"`
	QuantityGrams float64    `json:"quantity"`
	MealType      MealType   `json:"meal_type,omitempty"`
	LoggedAt      *time.Time `json:"logged_at,omitempty"`
	MacroValues
}

type LogFoodRequest struct {
	FoodName      string   `json:"food_name"`
	QuantityGrams float64  `json:"quantity"`
	MealType      MealType `json:"meal_type"`
}

type DailyLog struct {
	ID          string                  `json:"id"`
	Date        string                  `json:"date"`
	Meals       map[MealType][]LogEntry `json:"meals"`
	TotalMacros MacroValues             `json:"total_macros"`
}

// Entries returns the entries of one meal bucket, never nil.
func (l *DailyLog) Entries(meal MealType) []LogEntry {
	if l == nil || l.Meals == nil {
		return []LogEntry{}
	}
	if entries, ok := l.Meals[meal]; ok && entries != nil {
		return entries
	}
	return []LogEntry{}
}

func (l *DailyLog) EntryCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, entries := range l.Meals {
		n += len(entries)
	}
	return n
}

// Clone returns a deep copy so snapshots never share slices with the live store.
func (l *DailyLog) Clone() *DailyLog {
	if l == nil {
		return nil
	}
	out := &DailyLog{
		ID:          l.ID,
		Date:        l.Date,
		Meals:       make(map[MealType][]LogEntry, len(MealTypes)),
		TotalMacros: l.TotalMacros,
	}
	for meal, entries := range l.Meals {
		cp := make([]LogEntry, len(entries))
		copy(cp, entries)
		out.Meals[meal] = cp
	}
	return out
}

type DailyGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func DefaultGoals() DailyGoals {
	return DailyGoals{Calories: 2000, Protein: 150, Carbs: 250, Fat: 65}
}

type Goal struct {
	ID            int64
	DailyGoals
	EffectiveDate string
	CreatedAt     time.Time
}

type Plan struct {
	ID              string         `json:"id"`
	ClassifierLabel string         `json:"classifier_label,omitempty"`
	PlanText        string         `json:"plan_text"`
	UserInputs      map[string]any `json:"user_inputs,omitempty"`
	CreatedAt       *time.Time     `json:"created_at,omitempty"`
}

type ChatReply struct {
	Reply  string `json:"response"`
	PlanID string `json:"plan_id,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
