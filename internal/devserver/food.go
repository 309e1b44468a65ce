package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// CatalogFood is a catalog row; macros are per 100g.
type CatalogFood = model.FoodProfile

// SeedCatalog returns the foods the dev backend starts with.
func SeedCatalog() []CatalogFood {
	food := func(name string, kcal, protein, carbs, fat float64) CatalogFood {
		return CatalogFood{Name: name, MacroValues: model.MacroValues{Calories: kcal, Protein: protein, Carbs: carbs, Fat: fat}}
	}
	return []CatalogFood{
		food("Chicken Breast", 165, 31, 0, 3.6),
		food("Chicken Thigh", 209, 26, 0, 10.9),
		food("Salmon", 208, 20, 0, 13),
		food("Egg", 155, 13, 1.1, 11),
		food("Greek Yogurt", 59, 10, 3.6, 0.4),
		food("Oats", 389, 16.9, 66.3, 6.9),
		food("White Rice", 130, 2.7, 28, 0.3),
		food("Brown Rice", 112, 2.3, 24, 0.8),
		food("Whole Wheat Bread", 247, 13, 41, 3.4),
		food("Pasta", 158, 5.8, 31, 0.9),
		food("Apple", 52, 0.3, 14, 0.2),
		food("Apple Pie", 237, 1.9, 34, 11),
		food("Apricot", 48, 1.4, 11, 0.4),
		food("Banana", 89, 1.1, 23, 0.3),
		food("Broccoli", 34, 2.8, 7, 0.4),
		food("Spinach", 23, 2.9, 3.6, 0.4),
		food("Sweet Potato", 86, 1.6, 20, 0.1),
		food("Almonds", 579, 21, 22, 50),
		food("Peanut Butter", 588, 25, 20, 50),
		food("Olive Oil", 884, 0, 0, 100),
		food("Whole Milk", 61, 3.2, 4.8, 3.3),
		food("Cheddar Cheese", 403, 25, 1.3, 33),
		food("Lentils", 116, 9, 20, 0.4),
		food("Tofu", 76, 8, 1.9, 4.8),
	}
}

type catalog struct {
	foods []CatalogFood
}

func newCatalog(foods []CatalogFood) *catalog {
	return &catalog{foods: append([]CatalogFood(nil), foods...)}
}

// search returns prefix matches first, then other substring matches, each in
// catalog order.
func (c *catalog) search(query string, limit int) []CatalogFood {
	q := strings.ToLower(strings.TrimSpace(query))
	var prefix, rest []CatalogFood
	for _, f := range c.foods {
		name := strings.ToLower(f.Name)
		switch {
		case strings.HasPrefix(name, q):
			prefix = append(prefix, f)
		case strings.Contains(name, q):
			rest = append(rest, f)
		}
	}
	out := append(prefix, rest...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []CatalogFood{}
	}
	return out
}

func (c *catalog) lookup(name string) (CatalogFood, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range c.foods {
		if strings.ToLower(f.Name) == name {
			return f, true
		}
	}
	return CatalogFood{}, false
}

// logStore keeps one DailyLog per user and date.
type logStore struct {
	mu   sync.Mutex
	days map[string]map[string]*model.DailyLog // user id -> date -> log
}

func newLogStore() *logStore {
	return &logStore{days: map[string]map[string]*model.DailyLog{}}
}

func (st *logStore) dayLocked(userID, date string) *model.DailyLog {
	byDate := st.days[userID]
	if byDate == nil {
		byDate = map[string]*model.DailyLog{}
		st.days[userID] = byDate
	}
	day, ok := byDate[date]
	if !ok {
		day = &model.DailyLog{ID: uuid.NewString(), Date: date, Meals: emptyMeals()}
		byDate[date] = day
	}
	return day
}

func (st *logStore) get(userID, date string) *model.DailyLog {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.dayLocked(userID, date).Clone()
}

func (st *logStore) add(userID, date string, entry model.LogEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()
	day := st.dayLocked(userID, date)
	day.Meals[entry.MealType] = append(day.Meals[entry.MealType], entry)
	day.TotalMacros = service.TotalMacros(day)
}

// remove deletes the entry at index within meal and reports the log's date.
func (st *logStore) remove(userID, logID string, meal model.MealType, index int) (date string, found bool, inRange bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for d, day := range st.days[userID] {
		if day.ID != logID {
			continue
		}
		entries := day.Meals[meal]
		if index < 0 || index >= len(entries) {
			return d, true, false
		}
		day.Meals[meal] = append(entries[:index:index], entries[index+1:]...)
		day.TotalMacros = service.TotalMacros(day)
		return d, true, true
	}
	return "", false, false
}

func emptyMeals() map[model.MealType][]model.LogEntry {
	meals := make(map[model.MealType][]model.LogEntry, len(model.MealTypes))
	for _, m := range model.MealTypes {
		meals[m] = []model.LogEntry{}
	}
	return meals
}

func (s *Server) searchFoods(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		abort(c, http.StatusBadRequest, "query is required")
		return
	}
	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abort(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}
	c.JSON(http.StatusOK, gin.H{"foods": s.catalog.search(query, limit)})
}

func (s *Server) logFood(c *gin.Context) {
	var req model.LogFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if err := service.ValidateQuantity(req.QuantityGrams); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !req.MealType.Valid() {
		abort(c, http.StatusUnprocessableEntity, "invalid meal_type")
		return
	}
	food, ok := s.catalog.lookup(req.FoodName)
	if !ok {
		abort(c, http.StatusNotFound, "Food not found")
		return
	}

	userID := c.GetString(ctxUserID)
	date := s.today()
	now := s.cfg.Now().UTC()
	s.logs.add(userID, date, model.LogEntry{
		FoodName:      food.Name,
		QuantityGrams: req.QuantityGrams,
		MealType:      req.MealType,
		LoggedAt:      &now,
		MacroValues:   service.ScaleMacros(food, req.QuantityGrams),
	})
	s.hub.Broadcast(userID, logChanged(date))
	c.JSON(http.StatusOK, gin.H{"message": "Food logged successfully"})
}

func (s *Server) dailyLog(c *gin.Context) {
	date := s.today()
	if raw := strings.TrimSpace(c.Query("target_date")); raw != "" {
		parsed, err := service.ParseDate(raw, s.cfg.Now())
		if err != nil {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		date = parsed
	}
	c.JSON(http.StatusOK, s.logs.get(c.GetString(ctxUserID), date))
}

func (s *Server) deleteFoodLog(c *gin.Context) {
	meal := model.MealType(c.Query("meal_type"))
	if !meal.Valid() {
		abort(c, http.StatusBadRequest, "invalid meal_type")
		return
	}
	index, err := strconv.Atoi(c.Query("food_index"))
	if err != nil {
		abort(c, http.StatusBadRequest, "food_index must be an integer")
		return
	}

	userID := c.GetString(ctxUserID)
	date, found, inRange := s.logs.remove(userID, c.Param("id"), meal, index)
	switch {
	case !found:
		abort(c, http.StatusNotFound, "Food log not found")
		return
	case !inRange:
		abort(c, http.StatusBadRequest, "Invalid food index")
		return
	}
	s.hub.Broadcast(userID, logChanged(date))
	c.JSON(http.StatusOK, gin.H{"message": "Food entry deleted"})
}
