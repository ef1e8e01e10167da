package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit/internal/utils"
)

const testSecret = "unit-test-secret"

func signedToken(t *testing.T, userID uint64, role, username string) string {
	t.Helper()
	st, err := utils.NewSessionToken(testSecret, userID, role, username, 1)
	require.NoError(t, err)
	return st.Token
}

// okHandler records that the chain reached the handler.
func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthAcceptsCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signedToken(t, 7, "user", "carol")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 7, c.Get("user_id"))
	require.Equal(t, "user", c.Get("role"))
	require.Equal(t, "carol", c.Get("username"))
}

func TestJWTAuthAcceptsBearerHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, 3, "admin", "dave"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "admin", c.Get("role"))
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	st, err := utils.NewSessionToken("some-other-secret", 1, "user", "eve", 1)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+st.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWTAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthPassesGuestsThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := OptionalAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, c.Get("user_id"))
}

func TestOptionalAuthTreatsInvalidTokenAsGuest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := OptionalAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, c.Get("user_id"))
}

func TestOptionalAuthStoresClaimsWhenValid(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signedToken(t, 12, "user", "frank")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := OptionalAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 12, c.Get("user_id"))
}
