package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxLogger = "logger"
)

// UserID returns the authenticated user's ID.  ok is false on routes that
// did not pass through JWTAuth.
func UserID(c echo.Context) (id uint64, ok bool) {
	id, ok = c.Get(CtxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated user's role, or "" when anonymous.
func Role(c echo.Context) model.Role {
	r, _ := c.Get(CtxRole).(model.Role)
	return r
}

// Logger returns the request-scoped logger installed by RequestLogger, or
// a no-op logger outside of it.
func Logger(c echo.Context) *zap.Logger {
	if l, ok := c.Get(CtxLogger).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// subject identifies the caller for rate limiting.  The limiter runs before
// the JWTAuth groups, so a bearer token is verified here when JWTAuth has
// not stored an ID yet.  Missing or invalid tokens count as "anon".
func subject(c echo.Context, secret string) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if secret == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "anon"
	}
	id, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
	if err != nil {
		return "anon"
	}
	return strconv.FormatUint(id.UserID, 10)
}
