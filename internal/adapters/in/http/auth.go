package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"tripdesk/internal/core/domain/model/account"
)

const claimsContextKey = "auth_claims"

// Claims is the JWT payload issued at login: who the caller is and what
// role gates apply to them.
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the API's bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with the given signing secret and token
// lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) TokenIssuer {
	return TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for an authenticated user.
func (i TokenIssuer) Issue(user *account.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies a token and returns its claims.
func (i TokenIssuer) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token claims are invalid")
	}
	return claims, nil
}

// requireAuth is the echo middleware that validates the bearer token and
// stashes its claims in the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{
				Code:    http.StatusUnauthorized,
				Message: "Missing bearer token",
			})
		}

		claims, err := s.tokens.Parse(raw)
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired token",
			})
		}

		ctx.Set(claimsContextKey, claims)
		return next(ctx)
	}
}

// requireRoles gates a route to the given roles. It runs after requireAuth.
func requireRoles(roles ...account.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims := callerClaims(ctx)
			if claims == nil {
				return ctx.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Missing bearer token",
				})
			}
			for _, role := range roles {
				if string(role) == claims.Role {
					return next(ctx)
				}
			}
			return ctx.JSON(http.StatusForbidden, errorResponse{
				Code:    http.StatusForbidden,
				Message: "Role is not allowed to perform this operation",
			})
		}
	}
}

func callerClaims(ctx echo.Context) *Claims {
	claims, _ := ctx.Get(claimsContextKey).(*Claims)
	return claims
}
