package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// SessionCookie is the name of the httponly cookie carrying the signed
// session token. The SPA client never reads it; the browser sends it back
// on every request.
const SessionCookie = "token"

// sessionToken pulls the raw JWT from the request: the session cookie
// first, then an Authorization Bearer header for non-browser clients.
func sessionToken(c echo.Context) string {
    if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
        return ck.Value
    }
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}

// parseClaims validates the raw token against the secret and returns its
// claims. Only HMAC-signed tokens are accepted.
func parseClaims(raw, secret string) (jwt.MapClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, echo.ErrUnauthorized
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil, echo.ErrUnauthorized
    }
    return claims, nil
}

// storeClaims copies the identity claims into the Echo context so handlers
// can read them via c.Get("user_id"), c.Get("role") and c.Get("username").
func storeClaims(c echo.Context, claims jwt.MapClaims) {
    c.Set("user_id", claims["sub"])
    c.Set("role", claims["role"])
    c.Set("username", claims["username"])
}

// JWTAuth returns an Echo middleware that validates the session token and
// injects the token's subject, role and username claims into the request
// context. Requests without a valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := sessionToken(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            claims, err := parseClaims(raw, secret)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            storeClaims(c, claims)
            return next(c)
        }
    }
}

// OptionalAuth is like JWTAuth but lets unauthenticated requests through
// with no identity in context. Used on question fetches, where the view
// counter needs to know whether the requester is the author but guests may
// still read.
func OptionalAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if raw := sessionToken(c); raw != "" {
                if claims, err := parseClaims(raw, secret); err == nil {
                    storeClaims(c, claims)
                }
                // An invalid token on an optional route is treated as a guest.
            }
            return next(c)
        }
    }
}
