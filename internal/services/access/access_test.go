package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conlang/internal/domain"
	"conlang/internal/services/access"
	"conlang/internal/store"
)

func TestRequireOwner(t *testing.T) {
	assert.ErrorIs(t, access.RequireOwner(false, 1, 1), domain.ErrNotFound)
	assert.ErrorIs(t, access.RequireOwner(true, 1, 2), domain.ErrForbidden)
	assert.NoError(t, access.RequireOwner(true, 1, 1))
}

func TestCheckShareTarget(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	bob, err := st.CreateUser(ctx, domain.User{Username: "bob", PasswordHash: []byte("x")})
	require.NoError(t, err)

	assert.NoError(t, access.CheckShareTarget(ctx, st, 99, bob.ID))
	assert.ErrorIs(t, access.CheckShareTarget(ctx, st, bob.ID, bob.ID), domain.ErrInvalidInput)
	assert.ErrorIs(t, access.CheckShareTarget(ctx, st, bob.ID, 1234), domain.ErrNotFound)
}
