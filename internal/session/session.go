// Package session keeps the backend credential in local state and enforces forced logout.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/provider/fitzapi"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*fitzapi.LoginResult, error)
}

// Store reads the token from FITZ_TOKEN when set, otherwise from app_config.
// It satisfies fitzapi.TokenSource.
type Store struct {
	db       *sql.DB
	envToken string
	log      zerolog.Logger
	Now      func() time.Time
}

func New(db *sql.DB, envToken string, log zerolog.Logger) *Store {
	return &Store{db: db, envToken: strings.TrimSpace(envToken), log: log, Now: time.Now}
}

// Token returns the current bearer token, or "" when logged out.
// A JWT whose exp claim has passed yields errs.ErrUnauthorized so no request is sent.
func (s *Store) Token() (string, error) {
	token := s.envToken
	if token == "" {
		v, ok, err := service.GetConfig(s.db, service.ConfigSessionToken)
		if err != nil {
			return "", fmt.Errorf("read session token: %w", err)
		}
		if !ok {
			return "", nil
		}
		token = v
	}
	if exp, ok := expiry(token); ok && !s.Now().Before(exp) {
		return "", fmt.Errorf("session expired at %s: %w", exp.Format(time.RFC3339), errs.ErrUnauthorized)
	}
	return token, nil
}

func (s *Store) Email() (string, error) {
	v, _, err := service.GetConfig(s.db, service.ConfigSessionEmail)
	return v, err
}

func (s *Store) Save(token, email string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("session token is required")
	}
	if err := service.SetConfig(s.db, service.ConfigSessionToken, token); err != nil {
		return err
	}
	return service.SetConfig(s.db, service.ConfigSessionEmail, email)
}

// Login authenticates against the backend and persists the returned token.
func (s *Store) Login(ctx context.Context, auth Authenticator, email, password string) (*model.User, error) {
	res, err := auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user := res.User
	if user.Email == "" {
		user.Email = strings.TrimSpace(email)
	}
	if err := s.Save(res.AccessToken, user.Email); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.log.Info().Str("email", user.Email).Msg("logged in")
	return &user, nil
}

func (s *Store) Logout() error {
	if err := service.DeleteConfig(s.db, service.ConfigSessionToken); err != nil {
		return err
	}
	return service.DeleteConfig(s.db, service.ConfigSessionEmail)
}

// HandleUnauthorized is the API client's unauthorized hook: the stored credential is dropped.
func (s *Store) HandleUnauthorized() {
	if err := s.Logout(); err != nil {
		s.log.Error().Err(err).Msg("clear session after auth failure")
		return
	}
	if s.envToken != "" {
		s.log.Warn().Msg("FITZ_TOKEN was rejected by the server; unset it and run `fitz login`")
		return
	}
	s.log.Warn().Msg("session rejected by the server; run `fitz login`")
}

// expiry reads the exp claim without verifying the signature. Opaque tokens report ok=false.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
