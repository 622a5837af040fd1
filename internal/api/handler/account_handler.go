package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/flash"
	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/auth"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// AccountHandler serves the account views and processes login,
// registration, logout and account self-service mutations.
type AccountHandler struct {
	accounts  ports.AccountService
	inventory ports.InventoryService
	carrier   *auth.Carrier
	throttle  ports.LoginThrottle
	logger    zerolog.Logger
}

func NewAccountHandler(accounts ports.AccountService, inventory ports.InventoryService, carrier *auth.Carrier, throttle ports.LoginThrottle, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		inventory: inventory,
		carrier:   carrier,
		throttle:  throttle,
		logger:    logger,
	}
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required"`
	Email     string `form:"account_email" validate:"required,email"`
	Password  string `form:"account_password" validate:"required,min=12"`
}

type loginForm struct {
	Email    string `form:"account_email" validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

type updateForm struct {
	AccountID int    `form:"account_id" validate:"required"`
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required"`
	Email     string `form:"account_email" validate:"required,email"`
}

type passwordForm struct {
	AccountID int    `form:"account_id" validate:"required"`
	Password  string `form:"account_password" validate:"required,min=12"`
}

type deleteForm struct {
	AccountID int `form:"account_id" validate:"required"`
}

// LoginPage renders the login form.
func (h *AccountHandler) LoginPage(c echo.Context) error {
	data := pageData(c, h.inventory, "Login")
	data["Email"] = ""
	return c.Render(http.StatusOK, "login.html", data)
}

// RegisterPage renders the registration form.
func (h *AccountHandler) RegisterPage(c echo.Context) error {
	data := pageData(c, h.inventory, "Register")
	data["FirstName"], data["LastName"], data["Email"] = "", "", ""
	return c.Render(http.StatusOK, "register.html", data)
}

// Register processes the registration form.
func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return h.registerFailure(c, form, http.StatusBadRequest, "Sorry, the registration failed.")
	}
	if err := c.Validate(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return h.registerFailure(c, form, http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), form.FirstName, form.LastName, form.Email, form.Password)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
		flash.Set(c, fmt.Sprintf("Congratulations, you're registered %s. Please log in.", account.FirstName))
		return c.Redirect(http.StatusFound, "/account/login")
	case err == domain.ErrEmailTaken:
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return h.registerFailure(c, form, http.StatusBadRequest, "That email address is already registered.")
	default:
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Msg("registration failed")
		return h.registerFailure(c, form, http.StatusInternalServerError, "Sorry, there was an error processing the registration.")
	}
}

func (h *AccountHandler) registerFailure(c echo.Context, form registerForm, status int, notice string) error {
	data := pageData(c, h.inventory, "Register")
	data["Notice"] = notice
	data["FirstName"], data["LastName"], data["Email"] = form.FirstName, form.LastName, form.Email
	return c.Render(status, "register.html", data)
}

// Login processes a login attempt. Unknown email and wrong password
// share one generic notice, and no session cookie is set on failure.
func (h *AccountHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailure(c, "", http.StatusBadRequest)
	}
	if err := c.Validate(&form); err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return h.loginFailure(c, form.Email, http.StatusBadRequest)
	}

	ctx := c.Request().Context()

	if h.throttle != nil {
		blocked, err := h.throttle.Blocked(ctx, form.Email)
		if err != nil {
			// Throttle outage must not lock everyone out.
			h.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if blocked {
			metrics.LoginThrottledTotal.Inc()
			return h.loginFailure(c, form.Email, http.StatusBadRequest)
		}
	}

	token, _, err := h.accounts.Login(ctx, form.Email, form.Password)
	switch {
	case err == nil:
		metrics.LoginsTotal.WithLabelValues("ok").Inc()
		metrics.SessionsIssuedTotal.WithLabelValues("login").Inc()
		if h.throttle != nil {
			if err := h.throttle.Reset(ctx, form.Email); err != nil {
				h.logger.Warn().Err(err).Msg("login throttle reset failed")
			}
		}
		h.carrier.Attach(c, token)
		return c.Redirect(http.StatusFound, "/account/")
	case err == domain.ErrInvalidCredentials:
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		if h.throttle != nil {
			if err := h.throttle.RecordFailure(ctx, form.Email); err != nil {
				h.logger.Warn().Err(err).Msg("login throttle record failed")
			}
		}
		return h.loginFailure(c, form.Email, http.StatusBadRequest)
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Msg("login failed")
		return h.loginFailure(c, form.Email, http.StatusInternalServerError)
	}
}

func (h *AccountHandler) loginFailure(c echo.Context, email string, status int) error {
	data := pageData(c, h.inventory, "Login")
	data["Notice"] = "Please check your credentials and try again."
	data["Email"] = email
	return c.Render(status, "login.html", data)
}

// AccountPage renders the account management view.
func (h *AccountHandler) AccountPage(c echo.Context) error {
	claims := middleware.Identity(c)
	data := pageData(c, h.inventory, "Account Management")
	data["IsStaff"] = claims.IsStaff()
	return c.Render(http.StatusOK, "account.html", data)
}

// Logout clears the session cookie. Succeeds whether or not a cookie
// was present.
func (h *AccountHandler) Logout(c echo.Context) error {
	h.carrier.Clear(c)
	flash.Set(c, "You have been logged out.")
	return c.Redirect(http.StatusFound, "/")
}

// UpdatePage renders the account update form. Ownership is enforced by
// the RequireOwner middleware on the route.
func (h *AccountHandler) UpdatePage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("account_id"))
	if err != nil {
		flash.Set(c, "Account not found.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	account, err := h.accounts.Account(c.Request().Context(), id)
	if err != nil {
		flash.Set(c, "Account not found.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	data := pageData(c, h.inventory, "Update Account")
	data["Account"] = account
	return c.Render(http.StatusOK, "account_update.html", data)
}

// Update processes a name/email change, then refreshes the session so
// the carried claims match the new row. The refresh is best effort: a
// persisted mutation stands even when re-issuing the token fails.
func (h *AccountHandler) Update(c echo.Context) error {
	var form updateForm
	if err := c.Bind(&form); err != nil {
		flash.Set(c, "Account update failed.")
		return c.Redirect(http.StatusFound, "/account/")
	}
	if !h.ownsTarget(c, form.AccountID) {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
		flash.Set(c, "You are not authorized to update this account.")
		return c.Redirect(http.StatusFound, "/account/")
	}
	if err := c.Validate(&form); err != nil {
		flash.Set(c, err.Error())
		return c.Redirect(http.StatusFound, fmt.Sprintf("/account/update/%d", form.AccountID))
	}

	ctx := c.Request().Context()
	if _, err := h.accounts.UpdateProfile(ctx, form.AccountID, form.FirstName, form.LastName, form.Email); err != nil {
		h.logger.Error().Err(err).Int("account_id", form.AccountID).Msg("account update failed")
		flash.Set(c, "Account update failed.")
		return c.Redirect(http.StatusFound, fmt.Sprintf("/account/update/%d", form.AccountID))
	}

	h.refreshSession(c, form.AccountID, "profile_update")
	flash.Set(c, "Account updated successfully.")
	return c.Redirect(http.StatusFound, "/account/")
}

// ChangePassword processes a password change and refreshes the session.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var form passwordForm
	if err := c.Bind(&form); err != nil {
		flash.Set(c, "Password update failed.")
		return c.Redirect(http.StatusFound, "/account/")
	}
	if !h.ownsTarget(c, form.AccountID) {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
		flash.Set(c, "You are not authorized to update this account password.")
		return c.Redirect(http.StatusFound, "/account/")
	}
	if err := c.Validate(&form); err != nil {
		flash.Set(c, err.Error())
		return c.Redirect(http.StatusFound, fmt.Sprintf("/account/update/%d", form.AccountID))
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), form.AccountID, form.Password); err != nil {
		h.logger.Error().Err(err).Int("account_id", form.AccountID).Msg("password update failed")
		flash.Set(c, "Password update failed.")
		return c.Redirect(http.StatusFound, fmt.Sprintf("/account/update/%d", form.AccountID))
	}

	h.refreshSession(c, form.AccountID, "password_change")
	flash.Set(c, "Password updated successfully.")
	return c.Redirect(http.StatusFound, "/account/")
}

// DeleteAccount removes an account. Deleting your own account also
// ends the session; an Admin deleting someone else keeps their own.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	var form deleteForm
	if err := c.Bind(&form); err != nil {
		flash.Set(c, "Account delete failed.")
		return c.Redirect(http.StatusFound, "/account/")
	}
	if !h.ownsTarget(c, form.AccountID) {
		metrics.AuthzDenialsTotal.WithLabelValues("ownership").Inc()
		flash.Set(c, "You are not authorized to delete this account.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	if err := h.accounts.Delete(c.Request().Context(), form.AccountID); err != nil {
		h.logger.Error().Err(err).Int("account_id", form.AccountID).Msg("account delete failed")
		flash.Set(c, "Account delete failed.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	claims := middleware.Identity(c)
	if claims != nil && claims.AccountID == form.AccountID {
		h.carrier.Clear(c)
		flash.Set(c, "Your account has been deleted.")
		return c.Redirect(http.StatusFound, "/")
	}
	flash.Set(c, "Account deleted.")
	return c.Redirect(http.StatusFound, "/account/")
}

// ownsTarget reports whether the request identity may mutate the
// target account: the owner, or an Admin.
func (h *AccountHandler) ownsTarget(c echo.Context, targetID int) bool {
	claims := middleware.Identity(c)
	if claims == nil {
		return false
	}
	return claims.AccountID == targetID || claims.AccountType == domain.RoleAdmin
}

// refreshSession re-issues the session cookie from the canonical
// account record. On failure the stale cookie simply rides out its
// remaining TTL.
func (h *AccountHandler) refreshSession(c echo.Context, accountID int, trigger string) {
	token, _, err := h.accounts.Refresh(c.Request().Context(), accountID)
	if err != nil {
		h.logger.Warn().Err(err).Int("account_id", accountID).Msg("session refresh skipped")
		return
	}
	metrics.SessionsIssuedTotal.WithLabelValues(trigger).Inc()
	h.carrier.Attach(c, token)
}
