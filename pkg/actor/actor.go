// Package actor identifies the user or system performing an action.
//
// The gateway authenticates requests and forwards the caller as X-User-*
// headers. The staffing service records the actor on every persisted session
// and allocation change and on the events it publishes.
package actor

import (
	"context"
	"fmt"
	"net/http"
)

// SystemID identifies changes made by the service itself
const SystemID = "00000000-0000-0000-0000-000000000000"

// Actor represents the entity performing an action in the system.
type Actor struct {
	// ID is the unique identifier of the actor (user ID)
	ID string `json:"id"`

	// Email is the actor's email address
	Email string `json:"email"`

	// TenantID is the tenant the actor belongs to
	TenantID string `json:"tenant_id"`

	// RoleName is the actor's role (optional, for display purposes)
	RoleName string `json:"role_name,omitempty"`
}

// String returns a string representation of the actor for logging
func (a *Actor) String() string {
	if a == nil {
		return "system"
	}
	return fmt.Sprintf("%s (%s)", a.ID, a.Email)
}

// Ref returns the value stored in updated_by columns
func (a *Actor) Ref() string {
	if a == nil {
		return SystemID
	}
	if a.Email != "" {
		return a.Email
	}
	return a.ID
}

// FromHeaders builds an Actor from gateway headers. Returns nil without X-User-ID.
func FromHeaders(h http.Header) *Actor {
	id := h.Get("X-User-ID")
	if id == "" {
		return nil
	}
	return &Actor{
		ID:       id,
		Email:    h.Get("X-User-Email"),
		TenantID: h.Get("X-Tenant-ID"),
		RoleName: h.Get("X-User-Role"),
	}
}

// contextKey is the type for context keys to avoid collisions
type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present (e.g., system operations).
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}

// SystemActor returns an Actor representing the system itself.
func SystemActor() *Actor {
	return &Actor{
		ID:    SystemID,
		Email: "system@medflow.local",
	}
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	if a == nil {
		return true
	}
	return a.ID == SystemID
}
