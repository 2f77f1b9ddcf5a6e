package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer from PostgREST or an edge function.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase error: status %d: %s", e.Status, e.Message)
}

// ErrInvalidToken is returned for access tokens that fail verification.
var ErrInvalidToken = errors.New("invalid access token")

// UserClaims are the claims of a Supabase access token.
type UserClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Client talks to the Supabase REST and edge function endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	jwtSecret  []byte
	now        func() time.Time
}

// NewClient creates a new Supabase client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    cfg.SupabaseURL,
		anonKey:    cfg.SupabaseAnonKey,
		jwtSecret:  []byte(cfg.SupabaseJWTSecret),
		now:        time.Now,
	}
}

// VerifyUserToken checks an access token's signature and expiry. The user id
// is the Subject of the returned claims.
func (c *Client) VerifyUserToken(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// serviceToken signs a short-lived service role token.
func (c *Client) serviceToken() (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":  "supabase",
		"role": "service_role",
		"iat":  now.Unix(),
		"exp":  now.Add(5 * time.Minute).Unix(),
	})
	return token.SignedString(c.jwtSecret)
}

// Select runs a PostgREST GET on table and decodes the rows into out.
func (c *Client) Select(ctx context.Context, table string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, out)
}

// Update PATCHes the rows of table matching query.
func (c *Client) Update(ctx context.Context, table string, query url.Values, patch any) error {
	return c.do(ctx, http.MethodPatch, "/rest/v1/"+table, query, patch, nil)
}

// Delete removes the rows of table matching query.
func (c *Client) Delete(ctx context.Context, table string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/"+table, query, nil, nil)
}

// Invoke calls an edge function and returns its raw JSON body.
func (c *Client) Invoke(ctx context.Context, function string, payload any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/functions/v1/"+function, nil, payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.serviceToken()
	if err != nil {
		return fmt.Errorf("failed to create service token: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPatch || method == http.MethodDelete {
		req.Header.Set("Prefer", "return=minimal")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	log.Debugf("supabase %s %s: %d in %s", method, path, resp.StatusCode, time.Since(start))

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBytes, resp.Status)}
	}

	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the human readable message of an error body.
// PostgREST uses "message", auth and edge functions use "msg" or "error".
func errorMessage(body []byte, fallback string) string {
	var fields struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, m := range []string{fields.Message, fields.Msg, fields.Error} {
			if m != "" {
				return m
			}
		}
	}
	if text := string(bytes.TrimSpace(body)); text != "" && len(text) < 200 {
		return text
	}
	return fallback
}
