package fitzapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

type LoginResult struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type,omitempty"`
	User        model.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an access token. It sends no Authorization header.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errs.Invalid("email", "is required")
	}
	if password == "" {
		return nil, errs.Invalid("password", "is required")
	}
	anon := *c
	anon.http = c.anonymousHTTP()
	anon.onUnauthorized = nil

	var out LoginResult
	if err := anon.do(ctx, "login", http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errs.NewHTTPError("login", http.StatusUnauthorized, "no access token in response")
	}
	return &out, nil
}

func (c *Client) anonymousHTTP() *http.Client {
	hc := *c.http
	if bt, ok := hc.Transport.(*bearerTransport); ok {
		hc.Transport = &bearerTransport{base: bt.base}
	}
	return &hc
}
