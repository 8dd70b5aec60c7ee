package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

func TestAuthStatus(t *testing.T) {
	a := setup(t)
	inactive := testutil.CreateUser(t, a.DB, "Gone", "gone", "gone@test.cd", "G0ne!pass", []string{user.RoleStudent}, false)
	inactiveToken := getToken(t, a, inactive)

	status := func(t *testing.T, req *http.Request) echoapi.AuthStatus {
		rec := a.do(req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got echoapi.AuthStatus
		decode(t, rec, &got)
		return got
	}

	t.Run("anonymous", func(t *testing.T) {
		req := newRequest(http.MethodGet, "/v1/auth/status")
		req.Header.Set("Accept", "application/json")
		got := status(t, req)
		assert.False(t, got.Authenticated)
		assert.Nil(t, got.User)
		assert.False(t, got.Session.HasAuthorizationHeader)
		assert.Equal(t, []string{}, got.Session.CookieNames)
		assert.Equal(t, "application/json", got.Headers.Accept)
	})

	t.Run("valid token", func(t *testing.T) {
		req := newAuthRequest(http.MethodGet, "/v1/auth/status", a.teacherToken)
		req.Header.Set("User-Agent", "shule-tests")
		req.AddCookie(&http.Cookie{Name: "shule_session", Value: "secret"})
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "secret"})
		got := status(t, req)
		assert.True(t, got.Authenticated)
		require.NotNil(t, got.User)
		assert.Equal(t, a.teacher.ID, got.User.ID)
		assert.Equal(t, "teacher", got.User.Username)
		assert.Equal(t, []string{user.RoleTeacher}, got.User.Roles)
		assert.True(t, got.Session.HasBearerToken)
		assert.True(t, got.Session.TokenValid)
		assert.True(t, got.Session.HasCookie)
		assert.Equal(t, []string{"XSRF-TOKEN", "shule_session"}, got.Session.CookieNames)
		assert.True(t, got.Headers.UserAgentPresent)

		rec := a.do(req)
		assert.NotContains(t, rec.Body.String(), "secret")
		assert.NotContains(t, rec.Body.String(), a.teacherToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		got := status(t, newAuthRequest(http.MethodGet, "/v1/auth/status", "not-a-jwt"))
		assert.False(t, got.Authenticated)
		assert.True(t, got.Session.HasAuthorizationHeader)
		assert.True(t, got.Session.HasBearerToken)
		assert.False(t, got.Session.TokenValid)
	})

	t.Run("deactivated user", func(t *testing.T) {
		got := status(t, newAuthRequest(http.MethodGet, "/v1/auth/status", inactiveToken))
		assert.True(t, got.Session.TokenValid)
		assert.False(t, got.Authenticated)
		assert.Nil(t, got.User)
	})
}
