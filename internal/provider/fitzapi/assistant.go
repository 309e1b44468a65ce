package fitzapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

type chatRequest struct {
	Message string  `json:"message"`
	PlanID  *string `json:"plan_id"`
}

// Chat sends one message to the coaching assistant, optionally scoped to a plan.
func (c *Client) Chat(ctx context.Context, message, planID string) (*model.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errs.Invalid("message", "is required")
	}
	req := chatRequest{Message: message}
	if planID = strings.TrimSpace(planID); planID != "" {
		req.PlanID = &planID
	}
	var out model.ChatReply
	if err := c.do(ctx, "chat", http.MethodPost, "/ai/chat", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPlans(ctx context.Context) ([]model.Plan, error) {
	out := []model.Plan{}
	if err := c.do(ctx, "list plans", http.MethodGet, "/plans/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errs.Invalid("plan id", "is required")
	}
	var out model.Plan
	if err := c.do(ctx, "get plan", http.MethodGet, "/plans/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.Invalid("plan id", "is required")
	}
	return c.do(ctx, "delete plan", http.MethodDelete, "/plans/"+url.PathEscape(id), nil, nil, nil)
}
