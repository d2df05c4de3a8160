package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/library-service/internal/model"
	"github.com/library-service/internal/repository"
	"github.com/library-service/internal/utils"
)

// userKey is the context key under which Authenticate stores the
// resolved user record.
const userKey = "current_user"

// CurrentUser returns the user resolved by the Authenticate
// middleware. The second return value is false when no authenticated
// user is attached to the request.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}

// Authenticate returns a middleware that validates a Bearer access
// token and resolves its subject to a user row. The token must be
// HS256-signed with the provided secret and unexpired, and the
// subject email must exist. An expired token gets its own message so
// clients know to log in again; every other failure is reported
// identically to avoid leaking which part was wrong.
func Authenticate(secret string, users *repository.UserRepo, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sub, err := utils.DecodeToken(secret, raw, true)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token has expired, please log in again"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByEmail(ctx, sub)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
				}
				log.Error("user lookup failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}

			c.Set(userKey, u)
			return next(c)
		}
	}
}

// RequireActive rejects requests whose authenticated user has been
// deactivated. It must run after Authenticate.
func RequireActive(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
		}
		if !u.IsActive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "inactive account"})
		}
		return next(c)
	}
}

// RequireStaff rejects requests whose authenticated user lacks the
// staff flag. It must run after RequireActive so the full gate
// composes as authenticated -> active -> staff.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
		}
		if !u.IsStaff {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not enough privileges"})
		}
		return next(c)
	}
}
