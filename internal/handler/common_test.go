package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit/internal/policy"
)

func testContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetUserID(t *testing.T) {
	c := testContext("/")

	_, err := getUserID(c)
	require.Error(t, err)

	// JWT claims decode numerics as float64.
	c.Set("user_id", float64(31))
	id, err := getUserID(c)
	require.NoError(t, err)
	require.EqualValues(t, 31, id)

	c.Set("user_id", "42")
	id, err = getUserID(c)
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	require.Error(t, err)
}

func TestGetActor(t *testing.T) {
	c := testContext("/")
	c.Set("user_id", float64(5))
	c.Set("role", "admin")

	actor, err := getActor(c)
	require.NoError(t, err)
	require.Equal(t, policy.Actor{ID: 5, Role: "admin"}, actor)

	guest := testContext("/")
	_, err = getActor(guest)
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	c := testContext("/")
	c.SetParamNames("id")
	c.SetParamValues("123")

	id, err := parseID(c, "id")
	require.NoError(t, err)
	require.EqualValues(t, 123, id)

	c.SetParamValues("abc")
	_, err = parseID(c, "id")
	require.Error(t, err)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/?", 1, 10},
		{"explicit", "/?page=3&limit=25", 3, 25},
		{"zero page clamps", "/?page=0&limit=5", 1, 5},
		{"negative page clamps", "/?page=-2", 1, 10},
		{"oversized limit resets", "/?limit=500", 1, 10},
		{"garbage falls back", "/?page=x&limit=y", 1, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := pageParams(testContext(tc.target))
			require.Equal(t, tc.wantPage, page)
			require.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, totalPages(0, 10))
	require.Equal(t, 1, totalPages(1, 10))
	require.Equal(t, 1, totalPages(10, 10))
	require.Equal(t, 2, totalPages(11, 10))
	require.Equal(t, 0, totalPages(50, 0))
}
