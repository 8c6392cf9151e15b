package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/middleware"
	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	decodeFn   func(ctx context.Context, token string) (*domain.Session, error)
	logoutFn   func(ctx context.Context, sess *domain.Session) error
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) DecodeToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.decodeFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, sess *domain.Session) error {
	return s.logoutFn(ctx, sess)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || role != domain.RoleClient {
				t.Fatalf("unexpected args: %s %s %s", name, email, role)
			}
			return &domain.User{ID: "u1", Name: name, Email: email, Role: role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"name":"Alice","email":"alice@example.com","password":"supersecret","role":"client"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" || user["role"] != "client" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, ok := resp["token"]; ok {
		t.Fatalf("register must not issue a token")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"name":"Bob","email":"bob@example.com","password":"supersecret","role":"client"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", "not-json")

	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	// Password too short, role outside the allowed set.
	body := `{"name":"Eve","email":"eve@example.com","password":"short","role":"owner"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestAuthHandler_SignIn_SetsCookieAndToken(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "supersecret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"email":"alice@example.com","password":"supersecret"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/signin", body)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cookie = ck
		}
	}
	if cookie == nil {
		t.Fatalf("expected %s cookie", middleware.SessionCookie)
	}
	if cookie.Value != "token123" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
}

func TestAuthHandler_SignIn_UniformFailure(t *testing.T) {
	// Bad password and unknown account must be indistinguishable.
	for name, loginErr := range map[string]error{
		"bad password":    domain.ErrInvalidCredentials,
		"unknown account": domain.ErrUserNotFound,
	} {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
					return "", nil, loginErr
				},
			}
			handler := NewAuthHandler(stub)

			body := `{"email":"ghost@example.com","password":"whatever"}`
			c, rec := newTestContext(t, http.MethodPost, "/auth/signin", body)

			_ = handler.SignIn(c)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != "invalid credentials" {
				t.Fatalf("unexpected error message: %v", resp["error"])
			}
		})
	}
}

func TestAuthHandler_SignInPage_EchoesNext(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodGet, "/auth/signin?next=%2Fpanel%2Fadmin", "")

	if err := handler.SignInPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["next"] != "/panel/admin" {
		t.Fatalf("expected next=/panel/admin, got %q", resp["next"])
	}
}

func TestAuthHandler_SignOut_RevokesSession(t *testing.T) {
	revoked := false
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, sess *domain.Session) error {
			if sess.TokenID != "jti-1" {
				t.Fatalf("unexpected session: %+v", sess)
			}
			revoked = true
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/signout", "")
	middleware.SetSession(c, &domain.Session{Subject: "u1", Role: domain.RoleClient, TokenID: "jti-1"})

	if err := handler.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !revoked {
		t.Fatalf("expected Logout to be called")
	}

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge >= 0 {
			t.Fatalf("expected cookie to be expired, got MaxAge=%d", ck.MaxAge)
		}
	}
}

func TestAuthHandler_SignOut_NoSession(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, sess *domain.Session) error {
			t.Fatalf("should not be called without a session")
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/signout", "")

	if err := handler.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
