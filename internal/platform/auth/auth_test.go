package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer([]byte("test-secret"), "hospital-test", time.Hour)
}

func TestIssueAndParse(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.Issue("user-1", "dr.perez", RolePhysician)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Username != "dr.perez" {
		t.Errorf("expected username dr.perez, got %s", claims.Username)
	}
	if claims.Role != RolePhysician {
		t.Errorf("expected role physician, got %s", claims.Role)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "hospital-test", -time.Minute)
	token, err := issuer.Issue("user-1", "dr.perez", RolePhysician)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := newTestIssuer().Issue("user-1", "dr.perez", RolePhysician)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := NewTokenIssuer([]byte("other-secret"), "hospital-test", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	h := Middleware(newTestIssuer())(func(c echo.Context) error { return nil })
	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddlewareSetsIdentity(t *testing.T) {
	issuer := newTestIssuer()
	token, _ := issuer.Issue("user-7", "enf.gomez", RoleNurse)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	h := Middleware(issuer)(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "user-7" {
			t.Errorf("expected user-7, got %s", UserIDFromContext(ctx))
		}
		if RoleFromContext(ctx) != RoleNurse {
			t.Errorf("expected nurse role, got %s", RoleFromContext(ctx))
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requestWithRole(role string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	req = req.WithContext(ctx)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	h := RequireRole(RolePhysician, RoleNurse)(func(c echo.Context) error { return nil })
	if err := h(requestWithRole(RoleNurse)); err != nil {
		t.Errorf("expected nurse to pass, got %v", err)
	}
}

func TestRequireRoleAdminOverride(t *testing.T) {
	h := RequireRole(RoleLab)(func(c echo.Context) error { return nil })
	if err := h(requestWithRole(RoleAdmin)); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
}

func TestRequireRoleForbidsOthers(t *testing.T) {
	h := RequireRole(RolePharmacy)(func(c echo.Context) error { return nil })
	err := h(requestWithRole(RoleReceptionist))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}
