package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/pitch-booking/internal/config"
	"github.com/iliyamo/pitch-booking/internal/handler"
	"github.com/iliyamo/pitch-booking/internal/middleware"
)

// Handlers groups everything the route table dispatches to.
type Handlers struct {
	Auth         *handler.AuthHandler
	Pitches      *handler.PitchHandler
	Reservations *handler.ReservationHandler
	Admin        *handler.AdminHandler
	Health       echo.HandlerFunc
}

// Register wires every route.  Catalog reads (pitches, leaderboard) go
// through the Redis response cache, and admin writes purge it.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cfg.Cache, rdb)
	purge := middleware.PurgeCache(cfg.Cache, rdb)
	auth := middleware.JWTAuth(cfg.JWTSecret)

	e.GET("/healthz", h.Health)

	RegisterAuth(e, h.Auth, auth)

	v1 := e.Group("/v1")
	v1.GET("/pitches", h.Pitches.List, cache)
	v1.GET("/pitches/:id", h.Pitches.Get, cache)
	v1.GET("/reservations", h.Reservations.List)
	v1.GET("/reservations/:id", h.Reservations.Get)
	v1.GET("/calendar/:date", h.Reservations.Calendar)
	v1.GET("/leaderboard", h.Reservations.Leaderboard, cache)
	v1.GET("/users/:id/stats", h.Reservations.UserStats)

	RegisterPlayer(e, h.Reservations, auth, purge)
	RegisterAdmin(e, h.Pitches, h.Admin, auth, purge)
}

// RegisterAuth mounts session endpoints under /v1/auth and the protected
// profile endpoint at /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// logout parses the bearer itself so a refresh token alone suffices
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, auth)
}
