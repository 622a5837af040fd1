package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/auth"
)

// identityKey is the echo context key holding the request's *auth.Claims.
const identityKey = "identity"

// Authenticate resolves the session cookie into request identity state.
// It runs first on every request and never blocks: a missing or invalid
// token just leaves the request anonymous, because public routes must
// stay reachable. Invalid tokens are additionally cleared from the
// client as cleanup.
func Authenticate(codec *auth.Codec, carrier *auth.Carrier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := auth.Token(c)
			if token == "" {
				return next(c)
			}

			claims, err := codec.Verify(token)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				carrier.Clear(c)
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(identityKey, claims)
			return next(c)
		}
	}
}

// Identity returns the authenticated claims for the request, or nil
// when the request is anonymous.
func Identity(c echo.Context) *auth.Claims {
	claims, _ := c.Get(identityKey).(*auth.Claims)
	return claims
}
