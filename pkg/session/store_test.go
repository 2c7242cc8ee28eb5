package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreStartsEmptyAndUnhydrated(t *testing.T) {
	store := NewStore()

	state := store.Snapshot()
	assert.Nil(t, state.User)
	assert.Empty(t, state.Role)
	assert.Empty(t, state.Token)
	assert.False(t, state.Hydrated)
}

func TestSetSessionDerivesRoleFromUser(t *testing.T) {
	store := NewStore()
	store.SetSession(User{ID: "u1", FullName: "Carlos Vega", Role: "PATIENT"}, "token-1")

	state := store.Snapshot()
	assert.Equal(t, "PATIENT", state.Role)
	assert.Equal(t, "token-1", state.Token)
	assert.Equal(t, "token-1", store.Token())
	assert.Equal(t, "Carlos Vega", state.User.FullName)
}

func TestClearSessionKeepsHydratedLatch(t *testing.T) {
	store := NewStore()
	store.SetSession(User{ID: "u1", Role: "PATIENT"}, "token-1")
	store.markHydrated()

	store.ClearSession()

	state := store.Snapshot()
	assert.Nil(t, state.User)
	assert.Empty(t, state.Role)
	assert.Empty(t, state.Token)
	assert.True(t, state.Hydrated)
}

func TestSnapshotCopiesUser(t *testing.T) {
	store := NewStore()
	store.SetSession(User{ID: "u1", FullName: "Marta Silva", Role: "PATIENT"}, "token-1")

	state := store.Snapshot()
	state.User.FullName = "mutated"

	assert.Equal(t, "Marta Silva", store.Snapshot().User.FullName)
}
