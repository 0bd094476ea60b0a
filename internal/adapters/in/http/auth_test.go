package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	webapi "tripdesk/internal/adapters/in/http"
	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/pkg/errs"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) AddUser(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAccountRepository) AddTraveler(ctx context.Context, traveler *account.Traveler) error {
	args := m.Called(ctx, traveler)
	return args.Error(0)
}

func (m *MockAccountRepository) GetUserByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAccountRepository) GetUserByID(ctx context.Context, id int64) (*account.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAccountRepository) GetTraveler(ctx context.Context, id int64) (*account.Traveler, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Traveler), args.Error(1)
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := webapi.NewTokenIssuer("signing-secret", time.Hour)
	user := &account.User{ID: 9, Email: "driver@example.com", Role: account.RoleDriver}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, "driver", claims.Role)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	issuer := webapi.NewTokenIssuer("signing-secret", time.Hour)
	other := webapi.NewTokenIssuer("another-secret", time.Hour)
	user := &account.User{ID: 9, Role: account.RoleDriver}

	token, err := other.Issue(user)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := webapi.NewTokenIssuer("signing-secret", -time.Minute)
	user := &account.User{ID: 9, Role: account.RoleDriver}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func newAPIServer(accounts *MockAccountRepository) (*echo.Echo, webapi.TokenIssuer) {
	issuer := webapi.NewTokenIssuer("signing-secret", time.Hour)
	server := webapi.NewServer(webapi.ServerParams{
		Tokens:   issuer,
		Accounts: accounts,
	})
	e := echo.New()
	server.RegisterRoutes(e)
	return e, issuer
}

func postJSON(e *echo.Echo, path, body, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		request.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, request)
	return recorder
}

func TestLogin_IssuesTokenForValidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)

	accounts := &MockAccountRepository{}
	accounts.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(&account.User{
		ID:           31,
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         account.RoleTraveler,
		IsActive:     true,
	}, nil)
	e, issuer := newAPIServer(accounts)

	recorder := postJSON(e, "/api/v1/auth/login", `{"email":"ana@example.com","password":"hunter2"}`, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	var response struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "traveler", response.Role)

	claims, err := issuer.Parse(response.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(31), claims.UserID)
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)

	accounts := &MockAccountRepository{}
	accounts.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(&account.User{
		ID:           31,
		PasswordHash: string(hash),
		Role:         account.RoleTraveler,
		IsActive:     true,
	}, nil)
	e, _ := newAPIServer(accounts)

	recorder := postJSON(e, "/api/v1/auth/login", `{"email":"ana@example.com","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogin_RejectsUnknownEmail(t *testing.T) {
	accounts := &MockAccountRepository{}
	accounts.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, errs.NewObjectNotFoundError("user", "ghost@example.com"))
	e, _ := newAPIServer(accounts)

	recorder := postJSON(e, "/api/v1/auth/login", `{"email":"ghost@example.com","password":"x"}`, "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogin_RejectsInactiveAccount(t *testing.T) {
	accounts := &MockAccountRepository{}
	accounts.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(&account.User{
		ID:       31,
		Role:     account.RoleTraveler,
		IsActive: false,
	}, nil)
	e, _ := newAPIServer(accounts)

	recorder := postJSON(e, "/api/v1/auth/login", `{"email":"ana@example.com","password":"hunter2"}`, "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProtectedRoute_RequiresBearerToken(t *testing.T) {
	e, _ := newAPIServer(&MockAccountRepository{})

	recorder := postJSON(e, "/api/v1/trips/1/cancel", `{}`, "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestDriverRoute_RejectsTravelerRole(t *testing.T) {
	e, issuer := newAPIServer(&MockAccountRepository{})
	token, err := issuer.Issue(&account.User{ID: 31, Role: account.RoleTraveler})
	require.NoError(t, err)

	recorder := postJSON(e, "/api/v1/trips/1/accept", `{}`, token)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
