package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"

	"taskly/internal/service"
)

// Credentials is the persisted session: the principal plus the tokens
// needed to talk to the store on its behalf.
type Credentials struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Principal returns the principal the credentials belong to.
func (c Credentials) Principal() service.Principal {
	return service.Principal{
		UserID:      c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		CreatedAt:   c.CreatedAt,
	}
}

// Token returns the ID token as an OAuth2 bearer token.
func (c Credentials) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.IDToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// Load reads credentials from path. A missing file returns os.ErrNotExist.
func Load(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, err
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("invalid session file: %w", err)
	}
	if c.UserID == "" || c.RefreshToken == "" {
		return Credentials{}, errors.New("invalid session file: missing user or refresh token")
	}
	return c, nil
}

// Save writes credentials to path with mode 0600.
func Save(path string, c Credentials) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Remove deletes the credentials file. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
