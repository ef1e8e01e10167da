package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/stackit/stackit/internal/policy" // policy holds capability checks
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims decode as float64, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getActor builds the policy actor for the current request from the
// session claims stored in context.
func getActor(c echo.Context) (policy.Actor, error) {
    id, err := getUserID(c)
    if err != nil {
        return policy.Actor{}, err
    }
    role, _ := c.Get("role").(string)
    return policy.Actor{ID: id, Role: role}, nil
}

// getUsername returns the username claim, empty when absent.
func getUsername(c echo.Context) string {
    s, _ := c.Get("username").(string)
    return s
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// pageParams reads ?page and ?limit with the API-wide defaults.
func pageParams(c echo.Context) (page, limit int) {
    page, _ = strconv.Atoi(c.QueryParam("page"))
    limit, _ = strconv.Atoi(c.QueryParam("limit"))
    if page < 1 {
        page = 1
    }
    if limit < 1 || limit > 100 {
        limit = 10
    }
    return page, limit
}

// totalPages computes the page count for a total row count.
func totalPages(total, limit int) int {
    if limit < 1 {
        return 0
    }
    return (total + limit - 1) / limit
}
