package fitz

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/app"
	"github.com/rithankoushik/fitz-cli/internal/config"
	"github.com/rithankoushik/fitz-cli/internal/db"
	"github.com/rithankoushik/fitz-cli/internal/logger"
	"github.com/rithankoushik/fitz-cli/internal/provider/fitzapi"
	"github.com/rithankoushik/fitz-cli/internal/service"
	"github.com/rithankoushik/fitz-cli/internal/session"
)

// env is what a command needs to talk to the backend: settings, local state,
// the session and an authenticated client.
type env struct {
	cfg     *config.Config
	db      *sql.DB
	log     zerolog.Logger
	session *session.Store
	api     *fitzapi.Client
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(logLevel) != "" {
		cfg.LogLevel = logLevel
	}
	if debugHTTP {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if strings.TrimSpace(token) != "" {
		cfg.Token = token
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logger.New(cmd.ErrOrStderr(), "cli", true).Level(logger.ParseLevel(cfg.LogLevel))
}

func withDB(ctx context.Context, cfg *config.Config, run func(*sql.DB) error) error {
	path, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	sqldb, err := db.OpenMigrated(ctx, path)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

// withLocalDB is withDB for commands that never reach the backend.
func withLocalDB(cmd *cobra.Command, run func(*sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withDB(cmd.Context(), cfg, run)
}

func resolveDBPath(cfg *config.Config) (string, error) {
	return app.DBPath(dbPath, cfg.DBPath)
}

// resolveAPIURL picks --api-url, then FITZ_API_URL, then the stored api_url, then the default.
func resolveAPIURL(sqldb *sql.DB, cfg *config.Config) (string, error) {
	if v := strings.TrimSpace(apiURL); v != "" {
		return v, nil
	}
	if _, ok := os.LookupEnv(config.EnvPrefix + "_API_URL"); ok {
		return cfg.APIURL, nil
	}
	stored, ok, err := service.GetConfig(sqldb, service.ConfigAPIURL)
	if err != nil {
		return "", err
	}
	if ok && stored != "" {
		return stored, nil
	}
	return cfg.APIURL, nil
}

func withEnv(cmd *cobra.Command, run func(*env) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)
	return withDB(cmd.Context(), cfg, func(sqldb *sql.DB) error {
		sess := session.New(sqldb, cfg.Token, log.With().Str("part", "session").Logger())
		base, err := resolveAPIURL(sqldb, cfg)
		if err != nil {
			return err
		}
		api, err := fitzapi.New(base,
			fitzapi.WithTimeout(cfg.HTTPTimeout),
			fitzapi.WithTokenSource(sess),
			fitzapi.WithUnauthorizedHook(sess.HandleUnauthorized),
			fitzapi.WithLogger(log.With().Str("part", "api").Logger()),
			fitzapi.WithDebugLogging(cfg.Debug),
		)
		if err != nil {
			return fmt.Errorf("create api client: %w", err)
		}
		return run(&env{cfg: cfg, db: sqldb, log: log, session: sess, api: api})
	})
}

func parsePositionArg(value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("position must be > 0")
	}
	return v, nil
}
