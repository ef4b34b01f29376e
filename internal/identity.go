package internal

import (
	"context"
	"sync"
)

// Identity is the authenticated user of a request. It is read-only.
type Identity struct {
	Username string
	Email    string
	ID       int64
}

// IdentityLoader produces the identity of a request. A nil identity with a
// nil error means the request is anonymous.
type IdentityLoader func(ctx context.Context) (*Identity, error)

// identityCell memoizes identity resolution for one request.
type identityCell struct {
	identity *Identity
	err      error
	once     sync.Once
	resolved bool
	mu       sync.Mutex
}

func (cell *identityCell) resolve(ctx context.Context, load IdentityLoader) (*Identity, error) {
	cell.once.Do(func() {
		id, err := load(ctx)
		cell.mu.Lock()
		cell.identity, cell.err, cell.resolved = id, err, true
		cell.mu.Unlock()
	})
	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.identity, cell.err
}

func (cell *identityCell) value() *Identity {
	cell.mu.Lock()
	defer cell.mu.Unlock()
	if !cell.resolved || cell.err != nil {
		return nil
	}
	return cell.identity
}

// ResolveIdentity installs the identity cell in the request state and
// resolves it with load. Later calls in the same request return the first
// result, error included, without calling load again. Every middleware stage
// of the request sees the cell, outer ones included.
func ResolveIdentity(c Context, load IdentityLoader) (*Identity, error) {
	st := stateOf(c)
	if st.identity == nil {
		st.identity = &identityCell{}
	}
	return st.identity.resolve(c, load)
}

// IdentityFromContext returns the identity resolved for the request that ctx
// belongs to, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	if st, ok := ctx.Value(stateKey{}).(*requestState); ok && st.identity != nil {
		return st.identity.value()
	}
	return nil
}
