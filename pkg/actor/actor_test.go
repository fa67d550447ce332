package actor

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-User-ID", "user-1")
	h.Set("X-User-Email", "lead@theatres.example")
	h.Set("X-User-Role", "theatre_coordinator")
	h.Set("X-Tenant-ID", "tenant-1")

	a := FromHeaders(h)
	require.NotNil(t, a)
	assert.Equal(t, "user-1", a.ID)
	assert.Equal(t, "tenant-1", a.TenantID)
	assert.Equal(t, "lead@theatres.example", a.Ref())
	assert.False(t, a.IsSystem())
}

func TestFromHeaders_MissingUser(t *testing.T) {
	assert.Nil(t, FromHeaders(http.Header{}))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), &Actor{ID: "user-2"})
	assert.Equal(t, "user-2", FromContext(ctx).ID)
	assert.Nil(t, FromContext(context.Background()))
}

func TestNilActor(t *testing.T) {
	var a *Actor
	assert.True(t, a.IsSystem())
	assert.Equal(t, SystemID, a.Ref())
	assert.Equal(t, "system", a.String())
	assert.True(t, SystemActor().IsSystem())
}
