// Package identity implements service.Auth using the Identity Toolkit API
// (email/password accounts) and persists the session to disk.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/googleapi"
	itk "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"taskly/internal/config"
	"taskly/internal/service"
	"taskly/internal/session"
)

const (
	// SecureTokenURL exchanges a refresh token for a fresh ID token.
	SecureTokenURL = "https://securetoken.googleapis.com/v1/token"

	// defaultTokenLifetime is assumed when an ID token carries no expiry.
	defaultTokenLifetime = time.Hour
)

// Client implements service.Auth.
type Client struct {
	svc         *itk.Service
	apiKey      string
	tokenURL    string
	sessionPath string
	httpClient  *http.Client
	logger      *slog.Logger

	mu    sync.Mutex
	creds *session.Credentials
}

// New creates an auth client for cfg and restores a saved session if one exists.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key not configured")
	}
	svc, err := itk.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}
	c := &Client{
		svc:         svc,
		apiKey:      cfg.APIKey,
		tokenURL:    SecureTokenURL,
		sessionPath: cfg.SessionPath(),
		logger:      orDiscard(logger),
	}
	c.restore()
	return c, nil
}

// NewWithHTTPClient creates a client against a custom endpoint and HTTP
// client (for testing). tokenURL replaces the secure token endpoint.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, tokenURL, sessionPath string) (*Client, error) {
	svc, err := itk.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	c := &Client{
		svc:         svc,
		tokenURL:    tokenURL,
		sessionPath: sessionPath,
		httpClient:  httpClient,
		logger:      orDiscard(nil),
	}
	c.restore()
	return c, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// restore loads the saved session, ignoring a missing or unreadable file.
func (c *Client) restore() {
	creds, err := session.Load(c.sessionPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("ignoring saved session", slog.String("error", err.Error()))
		}
		return
	}
	c.creds = &creds
}

// SignIn verifies the password and saves the resulting session.
func (c *Client) SignIn(ctx context.Context, email, password string) (service.Principal, error) {
	resp, err := c.svc.Relyingparty.VerifyPassword(&itk.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return service.Principal{}, wrapError("sign in", err)
	}

	creds := session.Credentials{
		UserID:       resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}
	return c.establish(ctx, creds)
}

// SignUp creates the account and saves the resulting session.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (service.Principal, error) {
	resp, err := c.svc.Relyingparty.SignupNewUser(&itk.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return service.Principal{}, wrapError("sign up", err)
	}
	if resp.IdToken == "" || resp.RefreshToken == "" {
		// Some projects do not return tokens on sign-up; start the session explicitly.
		return c.SignIn(ctx, email, password)
	}

	creds := session.Credentials{
		UserID:       resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}
	if creds.DisplayName == "" {
		creds.DisplayName = displayName
	}
	return c.establish(ctx, creds)
}

// establish completes credentials from the ID token and account info, then saves them.
func (c *Client) establish(ctx context.Context, creds session.Credentials) (service.Principal, error) {
	if claims, err := session.ParseIDToken(creds.IDToken); err == nil {
		creds.Expiry = claims.Expiry
		if creds.UserID == "" {
			creds.UserID = claims.UserID
		}
	} else {
		c.logger.Debug("id token unreadable", slog.String("error", err.Error()))
	}
	if creds.Expiry.IsZero() {
		creds.Expiry = time.Now().Add(defaultTokenLifetime)
	}
	if creds.UserID == "" {
		return service.Principal{}, &service.AuthError{Code: service.AuthRejected, Err: errors.New("no user id in response")}
	}

	info, err := c.svc.Relyingparty.GetAccountInfo(&itk.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		IdToken: creds.IDToken,
	}).Context(ctx).Do()
	if err != nil {
		c.logger.Warn("account info unavailable", slog.String("error", err.Error()))
	} else {
		for _, u := range info.Users {
			if u.LocalId != creds.UserID {
				continue
			}
			if u.CreatedAt > 0 {
				creds.CreatedAt = time.UnixMilli(u.CreatedAt)
			}
			if creds.DisplayName == "" {
				creds.DisplayName = u.DisplayName
			}
		}
	}

	if err := c.save(creds); err != nil {
		return service.Principal{}, fmt.Errorf("failed to save session: %w", err)
	}
	c.logger.Debug("signed in", slog.String("uid", creds.UserID))
	return creds.Principal(), nil
}

func (c *Client) save(creds session.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0700); err != nil {
		return err
	}
	if err := session.Save(c.sessionPath, creds); err != nil {
		return err
	}
	c.creds = &creds
	return nil
}

// SignOut removes the saved session.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = nil
	return session.Remove(c.sessionPath)
}

// CurrentPrincipal returns the principal of the saved session.
func (c *Client) CurrentPrincipal() (service.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return service.Principal{}, false
	}
	return c.creds.Principal(), true
}

func (c *Client) credentials() (session.Credentials, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return session.Credentials{}, false
	}
	return *c.creds, true
}

// wrapError maps provider rejections to AuthError codes and everything
// else to StoreError.
func wrapError(op string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &service.StoreError{Op: op, Err: err}
	}
	if gerr.Code >= 500 {
		return &service.StoreError{Op: op, Err: err}
	}
	reasons := []string{gerr.Message}
	for _, item := range gerr.Errors {
		reasons = append(reasons, item.Message, item.Reason)
	}
	for _, r := range reasons {
		if code, ok := authCode(r); ok {
			return &service.AuthError{Code: code, Err: err}
		}
	}
	return &service.AuthError{Code: service.AuthRejected, Err: err}
}

// authCode maps a provider message such as "WEAK_PASSWORD : ..." to a code.
func authCode(msg string) (service.AuthCode, bool) {
	key := strings.TrimSpace(msg)
	if i := strings.IndexAny(key, " :"); i >= 0 {
		key = key[:i]
	}
	switch key {
	case "EMAIL_NOT_FOUND":
		return service.AuthUserNotFound, true
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return service.AuthInvalidCredentials, true
	case "INVALID_EMAIL":
		return service.AuthInvalidEmailFormat, true
	case "EMAIL_EXISTS":
		return service.AuthEmailInUse, true
	case "WEAK_PASSWORD":
		return service.AuthWeakPassword, true
	}
	return 0, false
}
