package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamnest/streamnest-backend/internal/domain"
	"github.com/streamnest/streamnest-backend/internal/service"
	"github.com/streamnest/streamnest-backend/internal/util"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"
)

// TokenVerifier resolves a bearer token to an authenticated user.
type TokenVerifier interface {
	Authenticate(c echo.Context, token string) (*domain.User, error)
}

type authVerifier struct {
	auth *service.AuthService
}

func (v authVerifier) Authenticate(c echo.Context, token string) (*domain.User, error) {
	return v.auth.Authenticate(c.Request().Context(), token)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func RequireAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, util.Failure("Authentication required."))
			}
			user, err := verifier.Authenticate(c, token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					return c.JSON(http.StatusUnauthorized, util.Failure("Invalid or expired token."))
				}
				return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// RequireAdmin allows only users with the admin role. Must run after
// RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Failure("Authentication required."))
			}
			if !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, util.Failure("Admin access required."))
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
