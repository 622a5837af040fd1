// Package flash carries one-shot user notices across a redirect in a
// cookie. The notice is set on the redirect response and consumed
// (read and deleted) by the next render. Notices are display text
// only, never secrets, so the cookie is unsigned.
package flash

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"
)

const cookieName = "notice"

// Set queues a notice for the next rendered page.
func Set(c echo.Context, message string) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears it so it renders
// exactly once.
func Pop(c echo.Context) string {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
