// Package devserver is a self-contained in-memory implementation of the fitz
// backend API. It exists for local development and for end-to-end tests of the
// client; nothing is persisted across restarts.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	DefaultAddr      = ":8000"
	DefaultTokenTTL  = 72 * time.Hour
	apiPrefix        = "/api"
	shutdownTimeout  = 5 * time.Second
	defaultDemoEmail = "demo@fitz.local"
	defaultDemoPass  = "fitz"
)

// Account is a login the dev backend accepts.
type Account struct {
	Email    string
	Password string
	Name     string
}

type Config struct {
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
	Accounts  []Account // defaults to a single demo account
	Catalog   []CatalogFood
	Now       func() time.Time
	Log       zerolog.Logger
}

type Server struct {
	cfg     Config
	users   *userStore
	catalog *catalog
	logs    *logStore
	plans   *planStore
	hub     *Hub
	engine  *gin.Engine
}

func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.Accounts) == 0 {
		cfg.Accounts = []Account{{Email: defaultDemoEmail, Password: defaultDemoPass, Name: "Demo"}}
	}
	if cfg.Catalog == nil {
		cfg.Catalog = SeedCatalog()
	}

	users, err := newUserStore(cfg.Accounts)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		users:   users,
		catalog: newCatalog(cfg.Catalog),
		logs:    newLogStore(),
		plans:   newPlanStore(cfg.Now),
		hub:     NewHub(cfg.Log),
	}
	for _, u := range users.all() {
		s.plans.seed(u.ID)
	}
	s.engine = s.setupRouter()
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.cfg.Log))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group(apiPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", s.login)
	}

	food := api.Group("/food")
	food.Use(s.authMiddleware())
	{
		food.GET("/search", s.searchFoods)
		food.POST("/log", s.logFood)
		food.GET("/daily", s.dailyLog)
		food.DELETE("/log/:id", s.deleteFoodLog)
		food.GET("/events", s.events)
	}

	ai := api.Group("/ai")
	ai.Use(s.authMiddleware())
	{
		ai.POST("/chat", s.chat)
	}

	plans := api.Group("/plans")
	plans.Use(s.authMiddleware())
	{
		plans.GET("/", s.listPlans)
		plans.GET("/:id", s.getPlan)
		plans.DELETE("/:id", s.deletePlan)
	}
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Log.Info().Str("addr", s.cfg.Addr).Msg("dev backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.cfg.Log.Info().Msg("dev backend stopped")
	return nil
}

func (s *Server) today() string {
	return s.cfg.Now().Format("2006-01-02")
}

// abort writes the {"detail": ...} error body the client expects.
func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
