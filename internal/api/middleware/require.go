package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/flash"
	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
)

const loginPath = "/account/login"

// RequireLogin gates a route on an authenticated identity. Anonymous
// requests are redirected to the login page with a notice.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Identity(c) == nil {
			metrics.AuthzDenialsTotal.WithLabelValues("login").Inc()
			flash.Set(c, "Please log in.")
			return c.Redirect(http.StatusFound, loginPath)
		}
		return next(c)
	}
}

// RequireRole gates a route on the identity's account type. Anonymous
// requests go to login; an authenticated identity with a role outside
// allowedRoles gets an explicit Forbidden page. With no roles given the
// check degenerates to login-required.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Identity(c)
			if claims == nil {
				metrics.AuthzDenialsTotal.WithLabelValues("login").Inc()
				flash.Set(c, "Please log in.")
				return c.Redirect(http.StatusFound, loginPath)
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[claims.AccountType]; !ok {
				metrics.AuthzDenialsTotal.WithLabelValues("role").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to access that area.")
			}
			return next(c)
		}
	}
}

// RequireOwner gates account self-service routes: the account_id path
// parameter must match the identity, unless the identity is an Admin.
// Failures bounce back to the account home, distinct from the generic
// role denial.
func RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := Identity(c)
		if claims == nil {
			metrics.AuthzDenialsTotal.WithLabelValues("login").Inc()
			flash.Set(c, "Please log in.")
			return c.Redirect(http.StatusFound, loginPath)
		}

		targetID, err := strconv.Atoi(c.Param("account_id"))
		if err != nil || (claims.AccountID != targetID && claims.AccountType != domain.RoleAdmin) {
			metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
			flash.Set(c, "You are not authorized to access that account.")
			return c.Redirect(http.StatusFound, "/account/")
		}
		return next(c)
	}
}
