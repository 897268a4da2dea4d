package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

type stubTokens struct {
	verifyFn func(ctx context.Context, token string) (rpc.Identity, error)
	revoked  []string
}

func (s *stubTokens) Issue(string, string) (string, error) { return "", nil }

func (s *stubTokens) Verify(ctx context.Context, token string) (rpc.Identity, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubTokens) Revoke(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, bool, rpc.Identity) {
	t.Helper()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen rpc.Identity
	err := mw(func(c echo.Context) error {
		called = true
		seen = Identity(c)
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, seen
}

func TestAuth_MissingToken(t *testing.T) {
	tokens := &stubTokens{
		verifyFn: func(context.Context, string) (rpc.Identity, error) {
			t.Fatalf("verify must not run without a token")
			return rpc.Identity{}, nil
		},
	}

	rec, called, _ := runAuth(t, Auth(tokens), "")
	if called {
		t.Fatalf("handler reached without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Acceso no autorizado: Token no proporcionado" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := &stubTokens{
		verifyFn: func(_ context.Context, token string) (rpc.Identity, error) {
			if token != "token123" {
				t.Fatalf("unexpected token: %s", token)
			}
			return rpc.Identity{SubjectID: "u1", Role: domain.RoleClient}, nil
		},
	}

	rec, called, id := runAuth(t, Auth(tokens), "Bearer token123")
	if !called {
		t.Fatalf("handler not reached: %d %s", rec.Code, rec.Body.String())
	}
	if id.SubjectID != "u1" || id.Role != domain.RoleClient {
		t.Fatalf("identity not injected: %+v", id)
	}
}

func TestAuth_RevokedTokenIs401(t *testing.T) {
	tokens := &stubTokens{
		verifyFn: func(context.Context, string) (rpc.Identity, error) {
			return rpc.Identity{}, domain.ErrTokenRevoked
		},
	}

	rec, called, _ := runAuth(t, Auth(tokens), "Bearer revoked")
	if called {
		t.Fatalf("handler reached with a revoked token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Token inválido" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuth_ExpiredAndForgedTokensAre403(t *testing.T) {
	for name, verifyErr := range map[string]error{
		"expired": domain.ErrTokenExpired,
		"forged":  domain.ErrTokenInvalid,
	} {
		t.Run(name, func(t *testing.T) {
			tokens := &stubTokens{
				verifyFn: func(context.Context, string) (rpc.Identity, error) {
					return rpc.Identity{}, verifyErr
				},
			}

			rec, called, _ := runAuth(t, Auth(tokens), "Bearer bad")
			if called {
				t.Fatalf("handler reached with a rejected token")
			}
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}

			var resp map[string]any
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["message"] != "Token no válido o expirado" {
				t.Fatalf("unexpected message: %v", resp["message"])
			}
		})
	}
}

func TestOptionalAuth_NoTokenContinuesAnonymously(t *testing.T) {
	tokens := &stubTokens{
		verifyFn: func(context.Context, string) (rpc.Identity, error) {
			t.Fatalf("verify must not run without a token")
			return rpc.Identity{}, nil
		},
	}

	_, called, id := runAuth(t, OptionalAuth(tokens), "")
	if !called {
		t.Fatalf("handler not reached")
	}
	if !id.Anonymous() {
		t.Fatalf("expected anonymous identity, got %+v", id)
	}
}

func TestOptionalAuth_PresentedTokenStillVerified(t *testing.T) {
	tokens := &stubTokens{
		verifyFn: func(context.Context, string) (rpc.Identity, error) {
			return rpc.Identity{}, domain.ErrTokenExpired
		},
	}

	rec, called, _ := runAuth(t, OptionalAuth(tokens), "Bearer stale")
	if called {
		t.Fatalf("a presented but bad token must not fall back to anonymous")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestBearerToken_Parsing(t *testing.T) {
	e := echo.New()

	for header, want := range map[string]bool{
		"Bearer abc":  true,
		"bearer abc":  true,
		"Bearer ":     false,
		"Basic xyz":   false,
		"justatoken":  false,
		"":            false,
		"Bearer a b":  true, // token may contain spaces after the first
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		_, ok := bearerToken(c)
		if ok != want {
			t.Fatalf("header %q: expected %v, got %v", header, want, ok)
		}
	}
}
