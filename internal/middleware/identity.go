package middleware

// identity.go defines helper functions shared across middleware files.
// It provides a userID extraction function that pulls the subject claim
// set by JWTAuth (or a raw jwt.Token stored by other middleware) out of
// the Echo context. When no token is present or no relevant claim
// exists, "guest" is returned.

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the request context. It
// returns "guest" when no user is authenticated or the claims are missing.
func userID(c echo.Context) string {
	// JWTAuth stores the raw sub claim under "user_id"; numeric claims
	// decode as float64.
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	if tok, ok := c.Get("user").(*jwt.Token); ok {
		if cl, ok := tok.Claims.(jwt.MapClaims); ok {
			if v, ok := cl["sub"].(string); ok && v != "" {
				return v
			}
			if v, ok := cl["user_id"].(string); ok && v != "" {
				return v
			}
		}
	}
	return "guest"
}
