package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/repository"
	"github.com/iliyamo/pitch-booking/internal/roster"
	"github.com/iliyamo/pitch-booking/internal/schedule"
	"github.com/iliyamo/pitch-booking/internal/service"
	"github.com/iliyamo/pitch-booking/internal/stats"
)

// Reservations is implemented by service.ReservationService.
type Reservations interface {
	Join(ctx context.Context, reservationID, userID uint64) (roster.Result, error)
	Leave(ctx context.Context, reservationID, userID uint64) (roster.Result, error)
	Kick(ctx context.Context, reservationID uint64, actorRole model.Role, actorID, target uint64, days int, reason string) (roster.Result, error)
	PromoteFromWaitlist(ctx context.Context, reservationID, actorID, userID uint64) (roster.Result, error)
	RemoveFromWaitlist(ctx context.Context, reservationID, actorID, userID uint64) (roster.Result, error)
	Complete(ctx context.Context, reservationID uint64, actorRole model.Role, actorID uint64) (roster.Result, error)
	Cancel(ctx context.Context, reservationID uint64, actorRole model.Role, actorID uint64) (roster.Result, error)
	AttachSummary(ctx context.Context, reservationID uint64, actorRole model.Role, actorID uint64, summary model.GameSummary) (roster.Result, error)
	CreateReservation(ctx context.Context, in service.NewReservation) (model.Reservation, error)
	CreateSeries(ctx context.Context, in service.NewReservation, rule string, limit int) ([]model.Reservation, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	Classified(ctx context.Context, f repository.ReservationFilter) (schedule.Buckets, error)
	ByDate(ctx context.Context, date string) ([]model.Reservation, error)
	UserStats(ctx context.Context, userID uint64) (stats.UserStats, error)
	Leaderboard(ctx context.Context, metric stats.Metric, limit int) ([]stats.Standing, error)
	Suspensions(ctx context.Context, userID uint64) ([]model.Suspension, error)
}

// ReservationHandler serves the public and player endpoints.
type ReservationHandler struct {
	svc Reservations
}

func NewReservationHandler(svc Reservations) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// List returns reservations split into current, upcoming and past,
// optionally narrowed by ?pitch_id= and ?date=.
func (h *ReservationHandler) List(c echo.Context) error {
	var f repository.ReservationFilter
	if v := c.QueryParam("pitch_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pitch_id"})
		}
		f.PitchID = id
	}
	if v := c.QueryParam("date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		f.Date = d
	}
	ctx, cancel := timeout(c)
	defer cancel()

	b, err := h.svc.Classified(ctx, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := timeout(c)
	defer cancel()

	r, err := h.svc.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Calendar answers whether a date has games and lists them.
func (h *ReservationHandler) Calendar(c echo.Context) error {
	date := c.Param("date")
	ctx, cancel := timeout(c)
	defer cancel()

	items, err := h.svc.ByDate(ctx, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":             date,
		"has_reservations": schedule.HasReservationsOn(items, date),
		"items":            items,
	})
}

// MyReservations lists the caller's games (lineup or waiting list).
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	uid, ok, err := currentUser(c)
	if !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()

	b, err := h.svc.Classified(ctx, repository.ReservationFilter{UserID: uid})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// MySuspensions lists the caller's suspensions, active or expired.
func (h *ReservationHandler) MySuspensions(c echo.Context) error {
	uid, ok, err := currentUser(c)
	if !ok {
		return err
	}
	return suspensionsOf(c, h.svc, uid)
}

func suspensionsOf(c echo.Context, svc Reservations, userID uint64) error {
	ctx, cancel := timeout(c)
	defer cancel()

	items, err := svc.Suspensions(ctx, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": userID, "items": items})
}

func (h *ReservationHandler) Join(c echo.Context) error {
	return h.self(c, http.StatusOK, h.svc.Join)
}

func (h *ReservationHandler) Leave(c echo.Context) error {
	return h.self(c, http.StatusOK, h.svc.Leave)
}

// LeaveWaitlist lets a player take themselves off the waiting list.
func (h *ReservationHandler) LeaveWaitlist(c echo.Context) error {
	return h.self(c, http.StatusOK, func(ctx context.Context, resID, uid uint64) (roster.Result, error) {
		return h.svc.RemoveFromWaitlist(ctx, resID, uid, uid)
	})
}

func (h *ReservationHandler) self(c echo.Context, status int, op func(context.Context, uint64, uint64) (roster.Result, error)) error {
	uid, ok, err := currentUser(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := timeout(c)
	defer cancel()

	res, err := op(ctx, id, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, res)
}

func (h *ReservationHandler) UserStats(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := timeout(c)
	defer cancel()

	s, err := h.svc.UserStats(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "stats": s})
}

// Leaderboard ranks players by ?metric= (default goals), at most ?limit=
// rows (default 10, max 100).
func (h *ReservationHandler) Leaderboard(c echo.Context) error {
	metric, err := stats.ParseMetric(c.QueryParam("metric"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 100"})
		}
		limit = n
	}
	ctx, cancel := timeout(c)
	defer cancel()

	rows, err := h.svc.Leaderboard(ctx, metric, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"metric": metric, "standings": rows})
}
