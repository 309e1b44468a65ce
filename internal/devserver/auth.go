package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rithankoushik/fitz-cli/internal/model"
)

const ctxUserID = "userID"

type account struct {
	model.User
	passwordHash []byte
}

type userStore struct {
	mu      sync.RWMutex
	byEmail map[string]*account
}

func newUserStore(accounts []Account) (*userStore, error) {
	st := &userStore{byEmail: make(map[string]*account, len(accounts))}
	for _, a := range accounts {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" || a.Password == "" {
			return nil, errors.New("account email and password are required")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", email, err)
		}
		st.byEmail[email] = &account{
			User:         model.User{ID: uuid.NewString(), Email: email, Name: a.Name},
			passwordHash: hash,
		}
	}
	return st, nil
}

func (st *userStore) authenticate(email, password string) (model.User, bool) {
	st.mu.RLock()
	a, ok := st.byEmail[strings.ToLower(strings.TrimSpace(email))]
	st.mu.RUnlock()
	if !ok {
		return model.User{}, false
	}
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
		return model.User{}, false
	}
	return a.User, true
}

func (st *userStore) exists(userID string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, a := range st.byEmail {
		if a.ID == userID {
			return true
		}
	}
	return false
}

func (st *userStore) all() []model.User {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]model.User, 0, len(st.byEmail))
	for _, a := range st.byEmail {
		out = append(out, a.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

func (s *Server) login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abort(c, http.StatusUnprocessableEntity, "email and password are required")
		return
	}
	user, ok := s.users.authenticate(input.Email, input.Password)
	if !ok {
		abort(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	token, err := s.issueToken(user)
	if err != nil {
		s.cfg.Log.Error().Err(err).Msg("issue token")
		abort(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// IssueToken signs an HS256 access token for the account with email. Tests use
// it to mint credentials without a login round trip.
func (s *Server) IssueToken(email string) (string, error) {
	s.users.mu.RLock()
	a, ok := s.users.byEmail[strings.ToLower(strings.TrimSpace(email))]
	s.users.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown account %q", email)
	}
	return s.issueToken(a.User)
}

func (s *Server) issueToken(user model.User) (string, error) {
	now := s.cfg.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	secret := []byte(s.cfg.JWTSecret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.cfg.Now),
		jwt.WithLeeway(5*time.Second),
	)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		userID, _ := claims["sub"].(string)
		if userID == "" || !s.users.exists(userID) {
			abort(c, http.StatusUnauthorized, "User not found")
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}
