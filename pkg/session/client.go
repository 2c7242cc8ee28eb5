package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Cookie names set by the service.
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// Client is a thin HTTP client for the auth endpoints of the service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given service base URL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Tokens carries the cookie values issued by a login.
type Tokens struct {
	Access  string
	Refresh string
}

// Login authenticates with an identity-card number and password. The returned
// tokens are read from the Set-Cookie headers.
func (c *Client) Login(ctx context.Context, identityCard, password string) (*Payload, *Tokens, error) {
	body, err := json.Marshal(map[string]string{
		"identityCard": identityCard,
		"password":     password,
	})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, decodeError(resp)
	}

	var envelope dataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, nil, fmt.Errorf("decode login response: %w", err)
	}

	tokens := &Tokens{}
	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case accessTokenCookie:
			tokens.Access = cookie.Value
		case refreshTokenCookie:
			tokens.Refresh = cookie.Value
		}
	}
	return &envelope.Data, tokens, nil
}

// Me resolves the identity behind an access token via the who-am-I endpoint.
func (c *Client) Me(ctx context.Context, accessToken string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: accessToken})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var envelope dataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	return &envelope.Data, nil
}

// Logout revokes the refresh token server-side. The service always answers
// 200 and clears its cookies.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	if refreshToken != "" {
		req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: refreshToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
}
