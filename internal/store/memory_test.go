package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conlang/internal/domain"
	"conlang/internal/store"
	"conlang/internal/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store { return store.NewMemory() })
}

func TestFileBacked(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		s, err := store.Open(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestOpen_ReloadsSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := store.Open(dir)
	require.NoError(t, err)
	alice, err := s.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: []byte("h")})
	require.NoError(t, err)
	rs, err := s.CreateRuleSet(ctx, domain.RuleSetInput{Name: "lenition", Rules: []string{"p > b / V_V"}}, alice.ID)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(filepath.Join(dir, store.SnapshotFile))
	require.NoError(t, err)

	reopened, err := store.Open(dir)
	require.NoError(t, err)

	got, ok, err := reopened.GetRuleSet(ctx, rs.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rs, got)

	// The id counter survives the restart.
	next, err := reopened.CreateLexiconEntry(ctx, domain.LexiconInput{Word: "aka"}, alice.ID)
	require.NoError(t, err)
	assert.Greater(t, next.ID, rs.ID)
}

func TestOpen_CorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.SnapshotFile), []byte("{not json"), 0o600))

	_, err := store.Open(dir)
	assert.Error(t, err)
}

func TestFileBacked_FailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	snapshot := filepath.Join(dir, store.SnapshotFile)

	s, err := store.Open(dir)
	require.NoError(t, err)
	alice, err := s.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: []byte("h")})
	require.NoError(t, err)
	rs, err := s.CreateRuleSet(ctx, domain.RuleSetInput{Name: "lenition", Rules: []string{"p > b"}}, alice.ID)
	require.NoError(t, err)
	entry, err := s.CreateLexiconEntry(ctx, domain.LexiconInput{Word: "aka", Category: "noun"}, alice.ID)
	require.NoError(t, err)

	// A non-empty directory where the snapshot lives makes the rename fail.
	block := func() {
		require.NoError(t, os.Remove(snapshot))
		require.NoError(t, os.Mkdir(snapshot, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(snapshot, "x"), nil, 0o600))
	}
	unblock := func() { require.NoError(t, os.RemoveAll(snapshot)) }

	block()

	_, err = s.CreateUser(ctx, domain.User{Username: "bob", PasswordHash: []byte("h")})
	require.Error(t, err)
	_, found, err := s.GetUserByName(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, found)

	require.Error(t, s.ShareRuleSet(ctx, rs.ID, alice.ID+100))
	require.Error(t, s.DeleteRuleSet(ctx, rs.ID))
	got, ok, err := s.GetRuleSet(ctx, rs.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rs, got)

	_, err = s.UpdateLexiconEntry(ctx, entry.ID, domain.LexiconInput{Word: "aga", Category: "verb"})
	require.Error(t, err)
	gotEntry, ok, err := s.GetLexiconEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, gotEntry)

	unblock()

	// The failed registration left nothing behind, so a retry succeeds.
	bob, err := s.CreateUser(ctx, domain.User{Username: "bob", PasswordHash: []byte("h")})
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.Username)
}
