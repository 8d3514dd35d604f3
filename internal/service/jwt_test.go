package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
)

const (
	testSecret = "test-secret-key-at-least-32-chars-long"
	testExpiry = 24 * time.Hour
)

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewJWTService(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)
	if service == nil {
		t.Fatal("NewJWTService returned nil")
	}

	if got := service.GetExpiry(); got != testExpiry {
		t.Errorf("GetExpiry() = %v, want %v", got, testExpiry)
	}
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	service := NewJWTService("", testExpiry)

	if service != nil {
		t.Error("NewJWTService() should return nil for empty secret")
	}
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	service := NewJWTService("short", testExpiry)

	if service != nil {
		t.Error("NewJWTService() should return nil for secret less than 32 bytes")
	}
}

// =============================================================================
// GenerateToken Tests
// =============================================================================

func TestGenerateToken(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	token, err := service.GenerateToken(42, models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d segments, want 3", len(parts))
	}
}

// =============================================================================
// ValidateToken Tests
// =============================================================================

func TestValidateToken_RoundTrip(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	token, err := service.GenerateToken(7, models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %s, want %s", claims.Role, models.RoleAdmin)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewJWTService(testSecret, -time.Hour)

	token, err := service.GenerateToken(1, models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Error("ValidateToken() should reject an expired token")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)
	other := NewJWTService("another-secret-key-that-is-32-chars!!", testExpiry)

	token, err := other.GenerateToken(1, models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Error("ValidateToken() should reject a token signed with a different secret")
	}
}

func TestValidateToken_WrongSigningMethod(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	// Unsigned token with the right claims shape
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: models.RoleUser})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	if _, err := service.ValidateToken(tokenString); err == nil {
		t.Error("ValidateToken() should reject the none signing method")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	service := NewJWTService(testSecret, testExpiry)

	if _, err := service.ValidateToken("not.a.token"); err == nil {
		t.Error("ValidateToken() should reject a malformed token")
	}
}
