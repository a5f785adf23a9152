package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCredentials_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	c := Credentials{
		UserID:       "u1",
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		CreatedAt:    time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		IDToken:      "id",
		RefreshToken: "refresh",
		Expiry:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := Save(path, c); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.UserID != c.UserID || got.Email != c.Email || got.DisplayName != c.DisplayName ||
		got.IDToken != c.IDToken || got.RefreshToken != c.RefreshToken ||
		!got.CreatedAt.Equal(c.CreatedAt) || !got.Expiry.Equal(c.Expiry) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	p := got.Principal()
	if p.UserID != "u1" || p.DisplayName != "Alice" || !p.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("unexpected principal: %+v", p)
	}
	tok := got.Token()
	if tok.AccessToken != "id" || tok.Type() != "Bearer" || tok.Valid() {
		t.Errorf("unexpected token: %+v", tok)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	os.WriteFile(corrupt, []byte("{not json"), 0600)
	if _, err := Load(corrupt); err == nil {
		t.Error("expected error for corrupt file")
	}

	partial := filepath.Join(dir, "partial.json")
	os.WriteFile(partial, []byte(`{"user_id":"u1","id_token":"x"}`), 0600)
	if _, err := Load(partial); err == nil {
		t.Error("expected error for session without refresh token")
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := Remove(path); err != nil {
		t.Errorf("removing a missing file should succeed, got %v", err)
	}
	os.WriteFile(path, []byte("{}"), 0600)
	if err := Remove(path); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected file to be removed")
	}
}

func TestParseIDToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "u1",
		"email":     "alice@example.com",
		"exp":       exp.Unix(),
		"auth_time": 1700000000,
	}).SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	c, err := ParseIDToken(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c.UserID != "u1" || c.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", c)
	}
	if !c.Expiry.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, c.Expiry)
	}
	if !c.AuthTime.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected auth time: %v", c.AuthTime)
	}
}

func TestParseIDToken_Invalid(t *testing.T) {
	if _, err := ParseIDToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}

	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"}).SignedString([]byte("k"))
	if _, err := ParseIDToken(raw); err == nil {
		t.Error("expected error for token without subject")
	}
}
