package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func roleContext(role any) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	return c, rec
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	c, rec := roleContext("admin")
	err := RequireRole("user", "admin")(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsUnlistedRole(t *testing.T) {
	c, rec := roleContext("user")
	err := RequireRole("admin")(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	c, rec := roleContext(nil)
	err := RequireRole("user", "admin")(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsNonStringRole(t *testing.T) {
	c, rec := roleContext(42)
	err := RequireRole("user")(okHandler)(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCurrentUserID(t *testing.T) {
	c, _ := roleContext(nil)
	require.Equal(t, "anon", currentUserID(c))

	c.Set("user_id", float64(9))
	require.Equal(t, "9", currentUserID(c))

	c.Set("user_id", "17")
	require.Equal(t, "17", currentUserID(c))

	c.Set("user_id", "")
	require.Equal(t, "anon", currentUserID(c))
}
