package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pitch-booking/internal/handler"
	"github.com/iliyamo/pitch-booking/internal/middleware"
	"github.com/iliyamo/pitch-booking/internal/model"
)

// RegisterAdmin mounts ADMIN-only endpoints under /v1/admin.  Every write
// here purges the response cache.
func RegisterAdmin(e *echo.Echo, p *handler.PitchHandler, a *handler.AdminHandler, auth, purge echo.MiddlewareFunc) {
	g := e.Group("/v1/admin", auth, middleware.RequireRole(model.RoleAdmin), purge)

	g.POST("/pitches", p.Create)

	g.POST("/reservations", a.CreateReservation)
	g.POST("/reservations/series", a.CreateSeries)
	g.POST("/reservations/:id/kick", a.Kick)
	g.POST("/reservations/:id/waitlist/add", a.Promote)
	g.POST("/reservations/:id/waitlist/remove", a.RemoveFromWaitlist)
	g.POST("/reservations/:id/complete", a.Complete)
	g.POST("/reservations/:id/cancel", a.Cancel)
	g.PUT("/reservations/:id/summary", a.AttachSummary)

	g.GET("/users/:id/suspensions", a.UserSuspensions)
}
