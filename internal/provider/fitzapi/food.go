package fitzapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

const DefaultSearchLimit = 20

type searchResponse struct {
	Foods []model.FoodProfile `json:"foods"`
}

// SearchFoods returns catalog matches in server order. Macros are per 100g.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]model.FoodProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Invalid("query", "is required")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var out searchResponse
	if err := c.do(ctx, "search foods", http.MethodGet, "/food/search", params, nil, &out); err != nil {
		return nil, err
	}
	if out.Foods == nil {
		out.Foods = []model.FoodProfile{}
	}
	return out.Foods, nil
}

// LogFood records quantity grams of a food in a meal for the current day.
func (c *Client) LogFood(ctx context.Context, req model.LogFoodRequest) error {
	req.FoodName = strings.TrimSpace(req.FoodName)
	if req.FoodName == "" {
		return errs.Invalid("food", "is required")
	}
	if req.QuantityGrams <= 0 {
		return errs.Invalid("quantity", "must be > 0")
	}
	if !req.MealType.Valid() {
		return errs.Invalid("meal", "invalid meal type %q", req.MealType)
	}
	return c.do(ctx, "log food", http.MethodPost, "/food/log", nil, req, nil)
}

// DailyLog fetches the log for date (YYYY-MM-DD); an empty date means the server's today.
func (c *Client) DailyLog(ctx context.Context, date string) (*model.DailyLog, error) {
	params := url.Values{}
	if date = strings.TrimSpace(date); date != "" {
		params.Set("target_date", date)
	}
	var out model.DailyLog
	if err := c.do(ctx, "fetch daily log", http.MethodGet, "/food/daily", params, nil, &out); err != nil {
		return nil, err
	}
	if out.Meals == nil {
		out.Meals = map[model.MealType][]model.LogEntry{}
	}
	return &out, nil
}

// DeleteFoodLog removes the entry at index within meal of the log identified by logID.
func (c *Client) DeleteFoodLog(ctx context.Context, logID string, meal model.MealType, index int) error {
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return errs.Invalid("log id", "is required")
	}
	if !meal.Valid() {
		return errs.Invalid("meal", "invalid meal type %q", meal)
	}
	if index < 0 {
		return errs.Invalid("index", "must be >= 0")
	}
	params := url.Values{}
	params.Set("meal_type", string(meal))
	params.Set("food_index", strconv.Itoa(index))
	return c.do(ctx, "delete food log", http.MethodDelete, "/food/log/"+url.PathEscape(logID), params, nil, nil)
}
