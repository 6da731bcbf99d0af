package auth

import (
	"testing"
	"time"

	"github.com/campus-hub/course-service/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: 42, Role: models.RoleInstructor}

	token, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != models.RoleInstructor {
		t.Errorf("Role = %q, want instructor", claims.Role)
	}
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate(&models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Parse(token); err != ErrInvalidToken {
		t.Errorf("Parse with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	token, err := tm.Generate(&models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := tm.Parse(token); err != ErrInvalidToken {
		t.Errorf("Parse expired token = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.Parse("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Parse garbage = %v, want ErrInvalidToken", err)
	}
}
