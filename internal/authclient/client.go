// Package authclient talks to the external identity provider. Tokens are
// opaque credentials here: the provider is the source of truth for identity
// and role claims, re-queried on every request.
package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/d4t4cr0c/catalog-api/internal/models"
)

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type providerUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

// GetUser verifies the bearer token against the provider and resolves the
// user. Role is read from user_metadata first, app_metadata as fallback,
// defaulting to "user".
func (c *Client) GetUser(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status: %d", resp.StatusCode)
	}

	var pu providerUser
	if err := json.NewDecoder(resp.Body).Decode(&pu); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &models.User{
		ID:        pu.ID,
		Email:     pu.Email,
		Role:      resolveRole(pu.UserMetadata, pu.AppMetadata),
		AvatarURL: metaString(pu.UserMetadata, "avatar_url"),
	}, nil
}

// SignOut asks the provider to revoke the session. Best effort: logout must
// succeed for the caller even when the provider call fails.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("logout failed with status: %d", resp.StatusCode)
	}
	return nil
}

func resolveRole(userMeta, appMeta map[string]any) string {
	if r := metaString(userMeta, "role"); r != "" {
		return r
	}
	if r := metaString(appMeta, "role"); r != "" {
		return r
	}
	return models.RoleUser
}

func metaString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
