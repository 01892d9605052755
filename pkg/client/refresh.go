package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/naveenspark/estate/pkg/storage"
)

const refreshPath = "/auth/token/refresh/"

// refreshKey is the singleflight key shared by coalesced refreshes.
const refreshKey = "refresh"

type refreshResponse struct {
	Access string `json:"access"`
	// Refresh is only present when the backend rotates refresh tokens.
	Refresh string `json:"refresh,omitempty"`
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token and stores it. The session is left untouched on failure.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	access, err := c.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("client.RefreshAccessToken: %w", err)
	}
	return access, nil
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	if !c.coalesce {
		return c.refreshOnce(ctx)
	}
	// The shared call is detached from every caller; each caller waits only
	// as long as its own context allows.
	ch := c.refreshes.DoChan(refreshKey, func() (any, error) {
		return c.refreshOnce(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			log.Debug().Msg("joined in-flight token refresh")
		}
		return res.Val.(string), nil
	}
}

// abandoned reports whether err comes from the caller giving up rather than
// from the backend rejecting the refresh token.
func abandoned(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

// refreshOnce calls the refresh endpoint directly, bypassing both interceptors.
func (c *Client) refreshOnce(ctx context.Context) (string, error) {
	refreshToken, ok, err := storage.Lookup(ctx, c.store, storage.KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if !ok || refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Method: http.MethodPost, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return "", &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return "", newHTTPError(resp.StatusCode, body, c.messagePath)
	}

	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Access == "" {
		return "", errors.New("refresh response carried no access token")
	}

	if err := c.store.Set(ctx, storage.KeyAccessToken, out.Access); err != nil {
		return "", fmt.Errorf("store access token: %w", err)
	}
	if out.Refresh != "" {
		if err := c.store.Set(ctx, storage.KeyRefreshToken, out.Refresh); err != nil {
			return "", fmt.Errorf("store refresh token: %w", err)
		}
	}
	log.Info().Bool("rotated", out.Refresh != "").Msg("access token refreshed")

	if c.onRefresh != nil {
		c.onRefresh(out.Access, out.Refresh)
	}
	return out.Access, nil
}

// expire clears the stored session and forces navigation to the login route.
func (c *Client) expire(ctx context.Context, cause error) {
	log.Warn().Err(cause).Msg("token refresh failed, clearing session")
	// Clear even if the caller's context is already done.
	if err := storage.Clear(context.WithoutCancel(ctx), c.store); err != nil {
		log.Err(err).Msg("clear session store")
	}
	if c.navigator != nil {
		c.navigator.RedirectToLogin(cause)
	}
}
