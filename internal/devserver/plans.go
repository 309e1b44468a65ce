package devserver

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

const seedPlanText = "Aim for 2000 kcal a day split across four meals.\n" +
	"Keep protein near 150 g, carbs near 250 g and fat near 65 g."

type planStore struct {
	mu    sync.Mutex
	now   func() time.Time
	plans map[string][]model.Plan // user id -> plans, newest first
}

func newPlanStore(now func() time.Time) *planStore {
	return &planStore{now: now, plans: map[string][]model.Plan{}}
}

func (st *planStore) seed(userID string) {
	created := st.now().UTC()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.plans[userID] = append(st.plans[userID], model.Plan{
		ID:              uuid.NewString(),
		ClassifierLabel: "balanced",
		PlanText:        seedPlanText,
		UserInputs:      map[string]any{"goal": "maintain"},
		CreatedAt:       &created,
	})
}

func (st *planStore) list(userID string) []model.Plan {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := append([]model.Plan{}, st.plans[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt != nil && out[j].CreatedAt != nil && out[i].CreatedAt.After(*out[j].CreatedAt)
	})
	return out
}

func (st *planStore) get(userID, id string) (model.Plan, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, p := range st.plans[userID] {
		if p.ID == id {
			return p, true
		}
	}
	return model.Plan{}, false
}

func (st *planStore) delete(userID, id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	plans := st.plans[userID]
	for i, p := range plans {
		if p.ID == id {
			st.plans[userID] = append(plans[:i:i], plans[i+1:]...)
			return true
		}
	}
	return false
}

type chatInput struct {
	Message string  `json:"message" binding:"required"`
	PlanID  *string `json:"plan_id"`
}

// chat answers with a canned coaching reply built from today's log, so the
// client can be exercised without a language model behind it.
func (s *Server) chat(c *gin.Context) {
	var input chatInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Message) == "" {
		abort(c, http.StatusUnprocessableEntity, "message is required")
		return
	}
	userID := c.GetString(ctxUserID)

	var b strings.Builder
	if input.PlanID != nil {
		plan, ok := s.plans.get(userID, *input.PlanID)
		if !ok {
			abort(c, http.StatusNotFound, "Plan not found")
			return
		}
		fmt.Fprintf(&b, "Following your %s plan. ", plan.ClassifierLabel)
	}

	day := s.logs.get(userID, s.today())
	summary := service.Summarize(day, model.DefaultGoals())
	if summary.RemainingCalories == nil {
		b.WriteString("Nothing is logged today yet; start with a protein-rich breakfast.")
	} else {
		fmt.Fprintf(&b, "You have logged %.0f kcal today with %.0f kcal remaining.",
			summary.Totals.Calories, *summary.RemainingCalories)
	}
	c.JSON(http.StatusOK, gin.H{"response": b.String()})
}

func (s *Server) listPlans(c *gin.Context) {
	c.JSON(http.StatusOK, s.plans.list(c.GetString(ctxUserID)))
}

func (s *Server) getPlan(c *gin.Context) {
	plan, ok := s.plans.get(c.GetString(ctxUserID), c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "Plan not found")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) deletePlan(c *gin.Context) {
	if !s.plans.delete(c.GetString(ctxUserID), c.Param("id")) {
		abort(c, http.StatusNotFound, "Plan not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}
