package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/auth"
	"github.com/csemotors/dealership/internal/core/domain"
)

func testCodec() *auth.Codec {
	return auth.NewCodec("test-secret", time.Hour)
}

func testCarrier() *auth.Carrier {
	return auth.NewCarrier(time.Hour, false)
}

func issueFor(t *testing.T, codec *auth.Codec, accountType string) string {
	t.Helper()
	token, err := codec.Issue(&domain.Account{
		ID:        7,
		FirstName: "Pat",
		LastName:  "Porter",
		Email:     "pat@cse.motors",
		Type:      accountType,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestAuthenticate_NoCookieStaysAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(testCodec(), testCarrier())(func(c echo.Context) error {
		called = true
		if Identity(c) != nil {
			t.Fatalf("expected anonymous identity")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called: authentication must never block")
	}
}

func TestAuthenticate_ValidTokenAttachesIdentity(t *testing.T) {
	e := echo.New()
	codec := testCodec()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: issueFor(t, codec, domain.RoleEmployee)})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(codec, testCarrier())(func(c echo.Context) error {
		claims := Identity(c)
		if claims == nil {
			t.Fatalf("expected authenticated identity")
		}
		if claims.AccountID != 7 || claims.Email != "pat@cse.motors" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if claims.AccountType != domain.RoleEmployee {
			t.Fatalf("account type = %q", claims.AccountType)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_BadTokenClearedAndAnonymous(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tampered.token.value"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(testCodec(), testCarrier())(func(c echo.Context) error {
		called = true
		if Identity(c) != nil {
			t.Fatalf("invalid token must demote to anonymous")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called: bad token is not an authorization decision")
	}

	res := http.Response{Header: rec.Header()}
	cleared := false
	for _, ck := range res.Cookies() {
		if ck.Name == auth.CookieName && ck.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("bad session cookie was not cleared")
	}
}

func TestAuthenticate_ExpiredTokenIsAnonymous(t *testing.T) {
	e := echo.New()
	short := auth.NewCodec("test-secret", time.Millisecond)
	token := issueFor(t, short, domain.RoleClient)
	time.Sleep(20 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Authenticate(short, testCarrier())(func(c echo.Context) error {
		if Identity(c) != nil {
			t.Fatalf("expired token must demote to anonymous")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
