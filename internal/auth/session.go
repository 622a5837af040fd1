package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the name of the session cookie carrying the JWT.
const CookieName = "jwt"

// Carrier binds a session token to the HTTP transport. The cookie is
// HttpOnly in every environment; the Secure flag is dropped only in
// development so plain-HTTP local setups keep working.
type Carrier struct {
	ttl    time.Duration
	secure bool
}

// NewCarrier builds a Carrier. secure should be false only for
// development deployments.
func NewCarrier(ttl time.Duration, secure bool) *Carrier {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Carrier{ttl: ttl, secure: secure}
}

// Attach sets the session cookie on the response. Max-Age comes from
// the same TTL the Codec signs into the token, so cookie and token
// expire together.
func (cr *Carrier) Attach(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cr.ttl.Seconds()),
		HttpOnly: true,
		Secure:   cr.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie unconditionally. Safe to call when
// no cookie was present.
func (cr *Carrier) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cr.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token extracts the raw session token from the request, or "" when
// the cookie is absent.
func Token(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
