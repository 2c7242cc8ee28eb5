package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLoginReadsCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "1234567", req["identityCard"])

		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "access-1", Path: "/", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh-1", Path: "/", HttpOnly: true})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": Payload{
				User: User{ID: "u1", IdentityNumber: "1234567", Role: "CLINICIAN"},
				Role: "CLINICIAN",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	payload, tokens, err := client.Login(context.Background(), "1234567", "clinician")
	require.NoError(t, err)

	assert.Equal(t, "CLINICIAN", payload.Role)
	assert.Equal(t, "access-1", tokens.Access)
	assert.Equal(t, "refresh-1", tokens.Refresh)
}

func TestClientLoginSurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    "INVALID_CREDENTIALS",
				"message": "invalid credentials",
				"details": map[string]any{"field": "password"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, _, err := client.Login(context.Background(), "1234567", "incorrecta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_CREDENTIALS")
}

func TestClientLogout(t *testing.T) {
	var gotRefresh string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			gotRefresh = cookie.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"loggedOut": true}})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	require.NoError(t, client.Logout(context.Background(), "refresh-1"))
	assert.Equal(t, "refresh-1", gotRefresh)
}
