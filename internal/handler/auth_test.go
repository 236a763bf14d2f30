package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pitch-booking/internal/config"
	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuth() (*AuthHandler, *memUsers, *memTokens) {
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	users, tokens := newMemUsers(), newMemTokens()
	return NewAuthHandler(cfg, users, tokens), users, tokens
}

func TestRegisterLoginRefresh(t *testing.T) {
	e := newEcho()
	h, users, tokens := newAuth()

	c, rec := request(e, http.MethodPost, "/", `{"email":" Ann@Example.com ","password":"secret123","display_name":"Ann"}`, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, string(model.RolePlayer), user["role"])

	access := body["access"].(map[string]any)["token"].(string)
	id, err := utils.ParseAccessToken(testSecret, access)
	require.NoError(t, err)
	assert.Equal(t, model.RolePlayer, id.Role)
	assert.Len(t, tokens.live, 1)

	// duplicate email
	c, rec = request(e, http.MethodPost, "/", `{"email":"ann@example.com","password":"secret123","display_name":"Ann"}`, 0, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = request(e, http.MethodPost, "/", `{"email":"ann@example.com","password":"wrong-pass"}`, 0, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = request(e, http.MethodPost, "/", `{"email":"ann@example.com","password":"secret123"}`, 0, "")
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := decode(t, rec)["refresh"].(map[string]any)["token"].(string)

	// refresh rotates: the old token stops working
	c, rec = request(e, http.MethodPost, "/", `{"refresh_token":"`+refresh+`"}`, 0, "")
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = request(e, http.MethodPost, "/", `{"refresh_token":"`+refresh+`"}`, 0, "")
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	u := users.byID[1]
	u.IsActive = false
	users.byID[1] = u
	c, rec = request(e, http.MethodPost, "/", `{"email":"ann@example.com","password":"secret123"}`, 0, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	e := newEcho()
	h, _, _ := newAuth()

	for _, body := range []string{
		`{"email":"not-an-email","password":"secret123","display_name":"A"}`,
		`{"email":"a@b.co","password":"short","display_name":"A"}`,
		`{"email":"a@b.co","password":"secret123"}`,
		`{`,
	} {
		c, rec := request(e, http.MethodPost, "/", body, 0, "")
		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestLogout(t *testing.T) {
	e := newEcho()
	h, _, tokens := newAuth()

	c, rec := request(e, http.MethodPost, "/", `{"email":"b@example.com","password":"secret123","display_name":"Ben"}`, 0, "")
	require.NoError(t, h.Register(c))
	body := decode(t, rec)
	access := body["access"].(map[string]any)["token"].(string)
	refresh := body["refresh"].(map[string]any)["token"].(string)

	c, rec = request(e, http.MethodPost, "/", `{"refresh_token":"`+refresh+`"}`, 0, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, tokens.live)

	c, rec = request(e, http.MethodPost, "/", `{"refresh_token":"`+refresh+`"}`, 0, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = request(e, http.MethodPost, "/", "", 0, "")
	c.Request().Header.Set("Authorization", "Bearer "+access)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = request(e, http.MethodPost, "/", "", 0, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	e := newEcho()
	h, users, _ := newAuth()
	users.byID[4] = model.User{ID: 4, Email: "c@example.com", DisplayName: "Cat", Role: model.RoleAdmin, IsActive: true}

	c, rec := request(e, http.MethodGet, "/v1/me", "", 4, model.RoleAdmin)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cat", decode(t, rec)["display_name"])

	c, rec = request(e, http.MethodGet, "/v1/me", "", 0, "")
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
