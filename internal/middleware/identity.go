package middleware

// identity.go defines helper functions shared across middleware files. The
// rate limiter and cache need a stable string form of the caller identity
// for key building; handlers use the typed accessors in the handler
// package instead.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string, or "anon"
// when the request carries no identity. JWT numeric claims arrive as
// float64, so the value is normalized through fmt.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
        return "anon"
    case float64:
        return fmt.Sprintf("%.0f", t)
    default:
        return fmt.Sprint(t)
    }
}
