package session

import (
	"context"
	"sync"
)

// Bootstrapper reconciles a locally cached token with the service at
// application start and seeds the Store with the outcome.
type Bootstrapper struct {
	client *Client
	store  *Store

	mu       sync.Mutex
	inFlight bool
}

// NewBootstrapper wires a client and a store together.
func NewBootstrapper(client *Client, store *Store) *Bootstrapper {
	return &Bootstrapper{client: client, store: store}
}

// Hydrate performs the one-time session reconciliation. A second trigger
// while the first call is still on the wire is a no-op, as is any trigger
// after hydration has completed. Whatever happens, the store ends up
// hydrated: success populates it, every failure mode clears it.
func (b *Bootstrapper) Hydrate(ctx context.Context) error {
	b.mu.Lock()
	if b.inFlight || b.store.Hydrated() {
		b.mu.Unlock()
		return nil
	}
	b.inFlight = true
	b.mu.Unlock()

	defer func() {
		b.store.markHydrated()
		b.mu.Lock()
		b.inFlight = false
		b.mu.Unlock()
	}()

	token := b.store.Token()
	if token == "" {
		b.store.ClearSession()
		return nil
	}

	payload, err := b.client.Me(ctx, token)
	if err != nil || payload == nil {
		b.store.ClearSession()
		return err
	}

	b.store.SetSession(payload.User, token)
	return nil
}
