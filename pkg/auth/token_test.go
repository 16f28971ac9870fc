package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/example/byteristo/pkg/config"
	"github.com/example/byteristo/pkg/models"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       "6f3a2f14-58a4-4f3d-9c8f-0a1b2c3d4e5f",
		Username: "mario",
		Email:    "mario@example.com",
		Role:     models.RoleWaiter,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	user := testUser()

	token, err := NewAccessToken(cfg, user)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.UserID() != user.ID {
		t.Errorf("subject = %q, want %q", claims.UserID(), user.ID)
	}
	if claims.Role != models.RoleWaiter {
		t.Errorf("role = %q, want waiter", claims.Role)
	}
	if claims.Username != "mario" || claims.Email != "mario@example.com" {
		t.Errorf("identity claims not carried: %+v", claims)
	}
	if claims.IsRefresh() {
		t.Error("access token must not be a refresh token")
	}
}

func TestRefreshToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := NewRefreshToken(cfg, testUser())
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if !claims.IsRefresh() {
		t.Error("refresh token not marked as such")
	}
	if claims.Role != "" {
		t.Error("refresh token must not carry a role")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	token, err := NewAccessToken(cfg, testUser())
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	other := &config.JWTConfig{Secret: "another-secret", AccessTTL: time.Hour}
	if _, err := ParseToken(other, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", AccessTTL: -time.Minute}

	token, err := NewAccessToken(cfg, testUser())
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := ParseToken(cfg, token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ParseToken with expired token = %v, want ErrExpiredToken", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken(testJWTConfig(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken(garbage) = %v, want ErrInvalidToken", err)
	}
}
