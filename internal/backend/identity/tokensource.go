package identity

import (
	"context"
	"log/slog"
	"net/url"

	"golang.org/x/oauth2"

	"taskly/internal/service"
	"taskly/internal/session"
)

// TokenSource returns the signed-in user's ID token as a bearer token,
// refreshing it through the secure token endpoint when it expires.
// Refreshed tokens are written back to the session file.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &sessionTokenSource{ctx: ctx, c: c})
}

type sessionTokenSource struct {
	ctx context.Context
	c   *Client
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	creds, ok := s.c.credentials()
	if !ok {
		return nil, service.ErrNotAuthenticated
	}
	if tok := creds.Token(); tok.Valid() {
		return tok, nil
	}

	ctx := s.ctx
	if s.c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.c.httpClient)
	}
	tok, err := s.c.refreshConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	if err != nil {
		return nil, &service.StoreError{Op: "refresh session", Err: err}
	}

	creds.IDToken = tok.AccessToken
	if idToken, ok := tok.Extra("id_token").(string); ok && idToken != "" {
		creds.IDToken = idToken
	}
	if tok.RefreshToken != "" {
		creds.RefreshToken = tok.RefreshToken
	}
	creds.Expiry = tok.Expiry
	if claims, err := session.ParseIDToken(creds.IDToken); err == nil && !claims.Expiry.IsZero() {
		creds.Expiry = claims.Expiry
	}
	if err := s.c.save(creds); err != nil {
		s.c.logger.Warn("failed to save refreshed session", slog.String("error", err.Error()))
	}
	return creds.Token(), nil
}

// refreshConfig describes the secure token endpoint as an OAuth2 endpoint
// with the API key in the query string and no client credentials.
func (c *Client) refreshConfig() *oauth2.Config {
	tokenURL := c.tokenURL
	if c.apiKey != "" {
		tokenURL += "?key=" + url.QueryEscape(c.apiKey)
	}
	return &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
