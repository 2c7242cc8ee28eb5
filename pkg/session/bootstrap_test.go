package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionServer(t *testing.T, validToken string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			http.NotFound(w, r)
			return
		}
		if calls != nil {
			calls.Add(1)
		}

		cookie, err := r.Cookie("accessToken")
		w.Header().Set("Content-Type", "application/json")
		if err != nil || cookie.Value != validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": "UNAUTHORIZED", "message": "invalid token"},
			})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": Payload{
				User: User{ID: "u1", FullName: "Laura Mendez", IdentityNumber: "1234567", Role: "CLINICIAN", Active: true},
				Role: "CLINICIAN",
				Clinician: &Clinician{
					ID:            "clinician-1",
					LicenseNumber: "NUT-2031",
				},
			},
		})
	}))
}

func TestHydrateWithValidToken(t *testing.T) {
	server := newSessionServer(t, "good-token", nil)
	defer server.Close()

	store := NewStore()
	store.SetSession(User{}, "good-token")
	boot := NewBootstrapper(NewClient(server.URL, server.Client()), store)

	require.NoError(t, boot.Hydrate(context.Background()))

	state := store.Snapshot()
	assert.True(t, state.Hydrated)
	assert.Equal(t, "CLINICIAN", state.Role)
	assert.Equal(t, "1234567", state.User.IdentityNumber)
	assert.Equal(t, "good-token", state.Token)
}

func TestHydrateWithoutTokenClearsAndLatches(t *testing.T) {
	server := newSessionServer(t, "good-token", nil)
	defer server.Close()

	store := NewStore()
	boot := NewBootstrapper(NewClient(server.URL, server.Client()), store)

	require.NoError(t, boot.Hydrate(context.Background()))

	state := store.Snapshot()
	assert.True(t, state.Hydrated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}

func TestHydrateWithRejectedTokenClearsSession(t *testing.T) {
	server := newSessionServer(t, "good-token", nil)
	defer server.Close()

	store := NewStore()
	store.SetSession(User{ID: "u1", Role: "CLINICIAN"}, "stale-token")
	boot := NewBootstrapper(NewClient(server.URL, server.Client()), store)

	err := boot.Hydrate(context.Background())
	require.Error(t, err)

	// Failure still completes hydration so the UI can settle.
	state := store.Snapshot()
	assert.True(t, state.Hydrated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}

func TestHydrateRunsOnlyOnce(t *testing.T) {
	var calls atomic.Int32
	server := newSessionServer(t, "good-token", &calls)
	defer server.Close()

	store := NewStore()
	store.SetSession(User{}, "good-token")
	boot := NewBootstrapper(NewClient(server.URL, server.Client()), store)

	require.NoError(t, boot.Hydrate(context.Background()))
	require.NoError(t, boot.Hydrate(context.Background()))
	require.NoError(t, boot.Hydrate(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
}
