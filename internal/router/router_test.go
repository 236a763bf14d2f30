package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pitch-booking/internal/config"
	"github.com/iliyamo/pitch-booking/internal/handler"
	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/utils"
)

const secret = "0123456789abcdef0123456789abcdef"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = handler.NewValidator()
	cfg := config.Config{JWTSecret: secret}
	Register(e, Handlers{
		Auth:         handler.NewAuthHandler(cfg, nil, nil),
		Pitches:      handler.NewPitchHandler(nil),
		Reservations: handler.NewReservationHandler(nil),
		Admin:        handler.NewAdminHandler(nil),
		Health:       handler.Health(nil),
	}, cfg, nil)
	return e
}

func TestRegister_RouteTable(t *testing.T) {
	e := newServer(t)

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /v1/auth/register",
		"POST /v1/auth/login",
		"POST /v1/auth/refresh",
		"POST /v1/auth/logout",
		"GET /v1/me",
		"GET /v1/pitches",
		"GET /v1/pitches/:id",
		"GET /v1/reservations",
		"GET /v1/reservations/:id",
		"GET /v1/calendar/:date",
		"GET /v1/leaderboard",
		"GET /v1/users/:id/stats",
		"POST /v1/reservations/:id/join",
		"POST /v1/reservations/:id/leave",
		"POST /v1/reservations/:id/waitlist/remove",
		"GET /v1/my-reservations",
		"POST /v1/admin/pitches",
		"POST /v1/admin/reservations",
		"POST /v1/admin/reservations/series",
		"POST /v1/admin/reservations/:id/kick",
		"POST /v1/admin/reservations/:id/waitlist/add",
		"POST /v1/admin/reservations/:id/waitlist/remove",
		"POST /v1/admin/reservations/:id/complete",
		"POST /v1/admin/reservations/:id/cancel",
		"PUT /v1/admin/reservations/:id/summary",
		"GET /v1/me/suspensions",
		"GET /v1/admin/users/:id/suspensions",
	} {
		assert.True(t, got[want], want)
	}
}

func TestRegister_Guards(t *testing.T) {
	e := newServer(t)

	player, err := utils.NewAccessToken(secret, 2, model.RolePlayer, 5)
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/healthz", "", http.StatusOK},
		{"join needs a token", http.MethodPost, "/v1/reservations/1/join", "", http.StatusUnauthorized},
		{"admin needs a token", http.MethodPost, "/v1/admin/reservations/1/complete", "", http.StatusUnauthorized},
		{"players cannot use admin routes", http.MethodPost, "/v1/admin/reservations/1/complete", player.Token, http.StatusForbidden},
		{"me needs a token", http.MethodGet, "/v1/me", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
