package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

const DefaultQuantityGrams = 100

type DraftState int

const (
	DraftEmpty DraftState = iota
	DraftDrafting
	DraftSubmitting
)

func (s DraftState) String() string {
	switch s {
	case DraftEmpty:
		return "empty"
	case DraftDrafting:
		return "drafting"
	case DraftSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("DraftState(%d)", int(s))
	}
}

// EntryLogger records a composed entry on the backend.
type EntryLogger interface {
	LogFood(ctx context.Context, req model.LogFoodRequest) error
}

type ComposerConfig struct {
	DefaultQuantity float64
	DefaultMeal     model.MealType
	OnChange        func(Draft)

	// OnLogged runs after a successful submission, once the draft is reset.
	OnLogged func(model.LogFoodRequest)
	Notify   NoticeFunc
	Log      zerolog.Logger
}

// Draft is a snapshot of the entry being composed. Preview is the selected food
// scaled to QuantityGrams.
type Draft struct {
	Version       uint64
	State         DraftState
	Food          *model.FoodProfile
	QuantityGrams float64
	Meal          model.MealType
	Preview       model.MacroValues
}

// Composer walks Empty -> Drafting -> Submitting. A successful submission returns
// to Empty with defaults restored; a failed one returns to Drafting unchanged.
type Composer struct {
	api         EntryLogger
	defaultQty  float64
	defaultMeal model.MealType
	onChange    func(Draft)
	onLogged    func(model.LogFoodRequest)
	notify      NoticeFunc
	log         zerolog.Logger

	mu      sync.Mutex
	version uint64
	state   DraftState
	food    *model.FoodProfile
	qty     float64
	meal    model.MealType
}

func NewComposer(api EntryLogger, cfg ComposerConfig) *Composer {
	if cfg.DefaultQuantity <= 0 || math.IsNaN(cfg.DefaultQuantity) || math.IsInf(cfg.DefaultQuantity, 0) {
		cfg.DefaultQuantity = DefaultQuantityGrams
	}
	if !cfg.DefaultMeal.Valid() {
		cfg.DefaultMeal = model.MealBreakfast
	}
	return &Composer{
		api:         api,
		defaultQty:  cfg.DefaultQuantity,
		defaultMeal: cfg.DefaultMeal,
		onChange:    cfg.OnChange,
		onLogged:    cfg.OnLogged,
		notify:      cfg.Notify,
		log:         cfg.Log,
		qty:         cfg.DefaultQuantity,
		meal:        cfg.DefaultMeal,
	}
}

// Select makes food the draft's candidate. Quantity and meal are kept.
func (c *Composer) Select(food model.FoodProfile) error {
	return c.mutate(func() error {
		if strings.TrimSpace(food.Name) == "" {
			return errs.Invalid("food", "candidate has no name")
		}
		c.food = &food
		c.state = DraftDrafting
		return nil
	})
}

// SetQuantity accepts any finite number; positivity is checked on Submit.
func (c *Composer) SetQuantity(grams float64) error {
	return c.mutate(func() error {
		if math.IsNaN(grams) || math.IsInf(grams, 0) {
			return errs.Invalid("quantity", "must be a finite number")
		}
		c.qty = grams
		return nil
	})
}

func (c *Composer) SetMeal(meal model.MealType) error {
	return c.mutate(func() error {
		if !meal.Valid() {
			return errs.Invalid("meal", "invalid meal type %q", meal)
		}
		c.meal = meal
		return nil
	})
}

// Cancel discards the draft.
func (c *Composer) Cancel() error {
	return c.mutate(func() error {
		c.resetLocked()
		return nil
	})
}

func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftLocked()
}

// Submit sends the draft. Validation failures raise a notice and issue no request.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state == DraftSubmitting {
		c.mu.Unlock()
		return errs.Invalid("draft", "a submission is already in progress")
	}
	if c.food == nil {
		c.mu.Unlock()
		return c.invalid(errs.Invalid("food", "select a food first"))
	}
	if err := service.ValidateQuantity(c.qty); err != nil {
		c.mu.Unlock()
		return c.invalid(err)
	}
	req := model.LogFoodRequest{FoodName: c.food.Name, QuantityGrams: c.qty, MealType: c.meal}
	c.state = DraftSubmitting
	d := c.draftLocked()
	c.mu.Unlock()
	c.emit(d)

	err := c.api.LogFood(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.state = DraftDrafting
		d = c.draftLocked()
		c.mu.Unlock()
		submissionsTotal.WithLabelValues("failed").Inc()
		c.log.Warn().Err(err).Str("food", req.FoodName).Msg("log food failed")
		c.emit(d)
		c.notify.emit(NoticeError, fmt.Sprintf("Failed to log %s: %v", req.FoodName, err))
		return fmt.Errorf("log food: %w", err)
	}
	c.resetLocked()
	d = c.draftLocked()
	c.mu.Unlock()

	submissionsTotal.WithLabelValues("ok").Inc()
	c.log.Info().Str("food", req.FoodName).Float64("grams", req.QuantityGrams).Str("meal", string(req.MealType)).Msg("food logged")
	c.emit(d)
	c.notify.emit(NoticeSuccess, fmt.Sprintf("Logged %g g of %s to %s", req.QuantityGrams, req.FoodName, req.MealType.Title()))
	if c.onLogged != nil {
		c.onLogged(req)
	}
	return nil
}

func (c *Composer) invalid(err error) error {
	submissionsTotal.WithLabelValues("invalid").Inc()
	c.notify.emit(NoticeError, err.Error())
	return err
}

func (c *Composer) mutate(fn func() error) error {
	c.mu.Lock()
	if c.state == DraftSubmitting {
		c.mu.Unlock()
		return errs.Invalid("draft", "a submission is in progress")
	}
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	d := c.draftLocked()
	c.mu.Unlock()
	c.emit(d)
	return nil
}

func (c *Composer) resetLocked() {
	c.state = DraftEmpty
	c.food = nil
	c.qty = c.defaultQty
	c.meal = c.defaultMeal
}

func (c *Composer) draftLocked() Draft {
	c.version++
	d := Draft{
		Version:       c.version,
		State:         c.state,
		QuantityGrams: c.qty,
		Meal:          c.meal,
	}
	if c.food != nil {
		food := *c.food
		d.Food = &food
		if c.qty > 0 {
			d.Preview = service.ScaleMacros(food, c.qty)
		}
	}
	return d
}

func (c *Composer) emit(d Draft) {
	if c.onChange != nil {
		c.onChange(d)
	}
}
