package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pitch-booking/internal/handler"
	"github.com/iliyamo/pitch-booking/internal/middleware"
	"github.com/iliyamo/pitch-booking/internal/model"
)

// RegisterPlayer mounts the self-service roster endpoints.  Admins may use
// them too, for their own place in a game.
func RegisterPlayer(e *echo.Echo, h *handler.ReservationHandler, auth, purge echo.MiddlewareFunc) {
	g := e.Group("/v1", auth, middleware.RequireRole(model.RolePlayer, model.RoleAdmin))
	g.POST("/reservations/:id/join", h.Join, purge)
	g.POST("/reservations/:id/leave", h.Leave, purge)
	g.POST("/reservations/:id/waitlist/remove", h.LeaveWaitlist, purge)
	g.GET("/my-reservations", h.MyReservations)
	g.GET("/me/suspensions", h.MySuspensions)
}
