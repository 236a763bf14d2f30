package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pitch-booking/internal/middleware"
	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/roster"
	"github.com/iliyamo/pitch-booking/internal/schedule"
	"github.com/iliyamo/pitch-booking/internal/service"
)

// AdminHandler serves the /v1/admin endpoints.  The caller's real role is
// forwarded to the service, so the roster engine stays the authority on
// who may kick, complete or cancel.
type AdminHandler struct {
	svc Reservations
}

func NewAdminHandler(svc Reservations) *AdminHandler { return &AdminHandler{svc: svc} }

type createReservationReq struct {
	PitchID    uint64 `json:"pitch_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time"`
	MaxPlayers int    `json:"max_players" validate:"min=0,max=50"`
}

type createSeriesReq struct {
	createReservationReq
	Rule  string `json:"rule" validate:"required"`
	Limit int    `json:"limit" validate:"min=0,max=52"`
}

type kickReq struct {
	UserID         uint64 `json:"user_id" validate:"required"`
	Reason         string `json:"reason"`
	SuspensionDays int    `json:"suspension_days"`
}

type userReq struct {
	UserID uint64 `json:"user_id" validate:"required"`
}

type playerSummaryReq struct {
	UserID     uint64 `json:"user_id" validate:"required"`
	Goals      int    `json:"goals" validate:"min=0"`
	Assists    int    `json:"assists" validate:"min=0"`
	CleanSheet bool   `json:"clean_sheet"`
	Won        bool   `json:"won"`
}

type summaryReq struct {
	HomeScore int                `json:"home_score" validate:"min=0"`
	AwayScore int                `json:"away_score" validate:"min=0"`
	MVP       uint64             `json:"mvp"`
	Players   []playerSummaryReq `json:"players" validate:"dive"`
}

func (r createReservationReq) toInput(createdBy uint64) service.NewReservation {
	return service.NewReservation{
		PitchID:    r.PitchID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		MaxPlayers: r.MaxPlayers,
		CreatedBy:  createdBy,
	}
}

func (h *AdminHandler) CreateReservation(c echo.Context) error {
	uid, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req createReservationReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()

	r, err := h.svc.CreateReservation(ctx, req.toInput(uid))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// CreateSeries creates recurring games from an RRULE such as
// "FREQ=WEEKLY;COUNT=8".
func (h *AdminHandler) CreateSeries(c echo.Context) error {
	uid, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req createSeriesReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	limit := req.Limit
	if limit == 0 {
		limit = schedule.MaxSeriesLength
	}
	ctx, cancel := timeout(c)
	defer cancel()

	rs, err := h.svc.CreateSeries(ctx, req.toInput(uid), req.Rule, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"count": len(rs), "items": rs})
}

func (h *AdminHandler) Kick(c echo.Context) error {
	var req kickReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return h.act(c, func(ctx context.Context, id, actor uint64, role model.Role) (roster.Result, error) {
		return h.svc.Kick(ctx, id, role, actor, req.UserID, req.SuspensionDays, req.Reason)
	})
}

// Promote moves a waiting player into the lineup.
func (h *AdminHandler) Promote(c echo.Context) error {
	var req userReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return h.act(c, func(ctx context.Context, id, actor uint64, _ model.Role) (roster.Result, error) {
		return h.svc.PromoteFromWaitlist(ctx, id, actor, req.UserID)
	})
}

func (h *AdminHandler) RemoveFromWaitlist(c echo.Context) error {
	var req userReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return h.act(c, func(ctx context.Context, id, actor uint64, _ model.Role) (roster.Result, error) {
		return h.svc.RemoveFromWaitlist(ctx, id, actor, req.UserID)
	})
}

func (h *AdminHandler) Complete(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id, actor uint64, role model.Role) (roster.Result, error) {
		return h.svc.Complete(ctx, id, role, actor)
	})
}

func (h *AdminHandler) Cancel(c echo.Context) error {
	return h.act(c, func(ctx context.Context, id, actor uint64, role model.Role) (roster.Result, error) {
		return h.svc.Cancel(ctx, id, role, actor)
	})
}

func (h *AdminHandler) AttachSummary(c echo.Context) error {
	var req summaryReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	summary := model.GameSummary{HomeScore: req.HomeScore, AwayScore: req.AwayScore, MVP: req.MVP}
	for _, p := range req.Players {
		summary.Players = append(summary.Players, model.PlayerSummary(p))
	}
	return h.act(c, func(ctx context.Context, id, actor uint64, role model.Role) (roster.Result, error) {
		return h.svc.AttachSummary(ctx, id, role, actor, summary)
	})
}

// UserSuspensions lists the suspensions of any user.
func (h *AdminHandler) UserSuspensions(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	return suspensionsOf(c, h.svc, id)
}

func (h *AdminHandler) act(c echo.Context, op func(ctx context.Context, id, actor uint64, role model.Role) (roster.Result, error)) error {
	actor, ok, err := currentUser(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := timeout(c)
	defer cancel()

	res, err := op(ctx, id, actor, middleware.Role(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
