package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/service"
)

// =============================================================================
// Mock Auth Service
// =============================================================================

type mockAuthService struct {
	registerFunc  func(ctx context.Context, in service.RegisterInput) (*service.AuthResponse, error)
	loginFunc     func(ctx context.Context, email, password string) (*service.AuthResponse, error)
	listUsersFunc func(ctx context.Context) ([]models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResponse, error) {
	return m.registerFunc(ctx, in)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResponse, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.listUsersFunc(ctx)
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupAuthRouter(authService service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(authService)
	router := gin.New()
	router.POST("/api/register", handler.Register)
	router.POST("/api/login", handler.Login)
	return router
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return body["error"]
}

// =============================================================================
// Register Tests
// =============================================================================

func TestRegister_Success(t *testing.T) {
	router := setupAuthRouter(&mockAuthService{
		registerFunc: func(ctx context.Context, in service.RegisterInput) (*service.AuthResponse, error) {
			if in.Email != "maria@acme.com" {
				t.Errorf("email = %q, want %q", in.Email, "maria@acme.com")
			}
			return &service.AuthResponse{
				Message: "user created successfully",
				Token:   "token-123",
				User:    models.PublicUser{ID: 1, Name: in.Name, Email: in.Email, Role: models.RoleUser},
			}, nil
		},
	})

	w := postJSON(router, "/api/register", gin.H{
		"name":     "Maria",
		"email":    "maria@acme.com",
		"password": "secret123",
		"company":  "Acme",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp service.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token != "token-123" {
		t.Errorf("token = %q, want %q", resp.Token, "token-123")
	}
	if resp.User.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", resp.User.Role, models.RoleUser)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	called := false
	router := setupAuthRouter(&mockAuthService{
		registerFunc: func(ctx context.Context, in service.RegisterInput) (*service.AuthResponse, error) {
			called = true
			return nil, nil
		},
	})

	w := postJSON(router, "/api/register", gin.H{"name": "Maria", "email": "maria@acme.com"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := errorMessage(t, w); got != "all fields are required" {
		t.Errorf("error = %q, want %q", got, "all fields are required")
	}
	if called {
		t.Error("service was called despite a failed binding")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router := setupAuthRouter(&mockAuthService{
		registerFunc: func(ctx context.Context, in service.RegisterInput) (*service.AuthResponse, error) {
			return nil, service.ErrEmailTaken
		},
	})

	w := postJSON(router, "/api/register", gin.H{
		"name":     "Maria",
		"email":    "maria@acme.com",
		"password": "secret123",
		"company":  "Acme",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := errorMessage(t, w); got != "user already exists" {
		t.Errorf("error = %q, want %q", got, "user already exists")
	}
}

func TestRegister_ServiceFailure(t *testing.T) {
	router := setupAuthRouter(&mockAuthService{
		registerFunc: func(ctx context.Context, in service.RegisterInput) (*service.AuthResponse, error) {
			return nil, errors.New("database down")
		},
	})

	w := postJSON(router, "/api/register", gin.H{
		"name":     "Maria",
		"email":    "maria@acme.com",
		"password": "secret123",
		"company":  "Acme",
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	// Internal details never reach the client.
	if got := errorMessage(t, w); got != "internal server error" {
		t.Errorf("error = %q, want %q", got, "internal server error")
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	router := setupAuthRouter(&mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.AuthResponse, error) {
			return &service.AuthResponse{
				Message: "login successful",
				Token:   "token-456",
				User:    models.PublicUser{ID: 2, Name: "Admin", Email: email, Role: models.RoleAdmin},
			}, nil
		},
	})

	w := postJSON(router, "/api/login", gin.H{"email": "admin@expensaflow.com", "password": "secret123"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp service.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token != "token-456" {
		t.Errorf("token = %q, want %q", resp.Token, "token-456")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := setupAuthRouter(&mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.AuthResponse, error) {
			return nil, service.ErrInvalidCredentials
		},
	})

	w := postJSON(router, "/api/login", gin.H{"email": "maria@acme.com", "password": "wrong"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := errorMessage(t, w); got != "invalid credentials" {
		t.Errorf("error = %q, want %q", got, "invalid credentials")
	}
}

// TestLogin_MissingFields: a malformed login body gets the same generic
// message as a failed credential check.
func TestLogin_MissingFields(t *testing.T) {
	router := setupAuthRouter(&mockAuthService{})

	w := postJSON(router, "/api/login", gin.H{"email": "maria@acme.com"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := errorMessage(t, w); got != "invalid credentials" {
		t.Errorf("error = %q, want %q", got, "invalid credentials")
	}
}
