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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskly/taskly-api/internal/api/metrics"
	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) error
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) error {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) error {
			if input.Email != "alice@example.com" || input.Password != "secret1" || input.ConfirmPassword != "secret1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub, newTestMetrics())

	req := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret1","confirmPassword":"secret1"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] == "" || resp["message"] == nil {
		t.Fatalf("expected message in response, got %v", resp)
	}
	if _, ok := resp["jwtToken"]; ok {
		t.Fatalf("registration must not issue a token")
	}
}

func TestAuthHandler_Register_PropagatesServiceErrors(t *testing.T) {
	for _, want := range []error{domain.ErrRegistrationFailed, domain.NewValidationError("email", "email must be a valid email")} {
		e := newTestEcho()
		stub := &stubAuthService{
			registerFn: func(ctx context.Context, input ports.RegisterInput) error {
				return want
			},
		}
		handler := NewAuthHandler(stub, newTestMetrics())

		req := jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"bob"}`)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.Register(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub, newTestMetrics())

	req := jsonRequest(http.MethodPost, "/api/auth/register", "not-json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", nil
		},
	}
	handler := NewAuthHandler(stub, newTestMetrics())

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret1"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["jwtToken"] != "token123" {
		t.Fatalf("expected jwtToken, got %v", resp["jwtToken"])
	}
}

func TestAuthHandler_Login_TrimsEmail(t *testing.T) {
	e := newTestEcho()
	var got string
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			got = email
			return "token123", nil
		},
	}
	handler := NewAuthHandler(stub, newTestMetrics())

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"  Alice@Example.com ","password":"secret1"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "Alice@Example.com" {
		t.Fatalf("expected trimmed email, got %q", got)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, newTestMetrics())

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing password", `{"email":"alice@example.com"}`},
		{"invalid email", `{"email":"not-an-email","password":"secret1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, email, password string) (string, error) {
					t.Fatalf("should not be called")
					return "", nil
				},
			}
			handler := NewAuthHandler(stub, newTestMetrics())

			req := jsonRequest(http.MethodPost, "/api/auth/login", tt.body)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.Login(c)

			var he *echo.HTTPError
			var ve *domain.ValidationError
			if !errors.As(err, &ve) && !(errors.As(err, &he) && he.Code == http.StatusBadRequest) {
				t.Fatalf("expected a 400-class error, got %v", err)
			}
		})
	}
}
