package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit/internal/config"
	"github.com/stackit/stackit/internal/middleware"
	"github.com/stackit/stackit/internal/repository"
)

func postJSON(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Validation failures never reach the repository, so a zero handler is enough.
func TestRegisterValidation(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{}}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"short username", `{"username":"ab","email":"a@b.com","password":"secret1"}`, "username must be 3-30 characters"},
		{"long username", `{"username":"` + strings.Repeat("x", 31) + `","email":"a@b.com","password":"secret1"}`, "username must be 3-30 characters"},
		{"missing email", `{"username":"alice","password":"secret1"}`, "valid email required"},
		{"malformed email", `{"username":"alice","email":"nope","password":"secret1"}`, "valid email required"},
		{"short password", `{"username":"alice","email":"a@b.com","password":"12345"}`, "password must be at least 6 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON("/v1/auth/register", tc.body)
			require.NoError(t, h.Register(c))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{}}

	c, rec := postJSON("/v1/auth/login", `{"email":"","password":""}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func loginHandlerWithDB(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &AuthHandler{Cfg: config.Config{}, Users: repository.NewUserRepo(db)}, mock
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	h, mock := loginHandlerWithDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@b.com").
		WillReturnError(sql.ErrNoRows)

	c, rec := postJSON("/v1/auth/login", `{"email":"a@b.com","password":"secret1"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A storage failure is an internal error, not an authentication failure.
func TestLoginStorageFailureIsInternalError(t *testing.T) {
	h, mock := loginHandlerWithDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@b.com").
		WillReturnError(errors.New("connection refused"))

	c, rec := postJSON("/v1/auth/login", `{"email":"a@b.com","password":"secret1"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginInactiveAccountIsUnauthorized(t *testing.T) {
	h, mock := loginHandlerWithDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "role", "reputation",
			"avatar", "is_active", "created_at", "updated_at",
		}).AddRow(uint64(3), "alice", "a@b.com", "$2a$04$hash", "user", 0, "", false, now, now))

	c, rec := postJSON("/v1/auth/login", `{"email":"a@b.com","password":"secret1"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{}}

	c, rec := postJSON("/v1/auth/logout", "")
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, middleware.SessionCookie, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.True(t, cookies[0].Expires.Before(time.Now()))
	require.True(t, cookies[0].HttpOnly)
}
