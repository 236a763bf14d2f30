package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/pitch-booking/internal/middleware"
	"github.com/iliyamo/pitch-booking/internal/repository"
	"github.com/iliyamo/pitch-booking/internal/roster"
	"github.com/iliyamo/pitch-booking/internal/service"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

// RequestValidator adapts go-playground/validator to echo.Validator so
// handlers can call c.Validate on their DTOs.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator { return &RequestValidator{v: validator.New()} }

func (rv *RequestValidator) Validate(i interface{}) error { return rv.v.Struct(i) }

// bindValid decodes the body into req and validates it.  It writes the 400
// itself and returns false when either step fails.
func bindValid(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// currentUser returns the authenticated caller or writes a 401.
func currentUser(c echo.Context) (uint64, bool, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return id, true, nil
}

func timeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// statusFor maps domain failures to HTTP status codes.  Anything unknown is
// a 500 and its text is not exposed.
func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrAlreadyJoined),
		errors.Is(err, roster.ErrReservationFull),
		errors.Is(err, roster.ErrReservationClosed),
		errors.Is(err, roster.ErrSummaryExists),
		errors.Is(err, roster.ErrNotCompleted),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, roster.ErrNotJoined),
		errors.Is(err, roster.ErrNotInWaitlist),
		errors.Is(err, roster.ErrPlayerNotInGame),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, roster.ErrForbidden),
		errors.Is(err, repository.ErrForbidden),
		errors.Is(err, service.ErrSuspended):
		return http.StatusForbidden
	case errors.Is(err, roster.ErrInvalidSuspensionDuration),
		errors.Is(err, roster.ErrMissingReason),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(c).Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
