package phonology_test

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conlang/internal/domain"
	"conlang/internal/phonology/wordgen"
	"conlang/internal/services/phonology"
	"conlang/internal/store"
)

func setup(t *testing.T, seed uint64) (*phonology.Service, domain.UserID, domain.UserID) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	alice, err := st.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: []byte("x")})
	require.NoError(t, err)
	bob, err := st.CreateUser(ctx, domain.User{Username: "bob", PasswordHash: []byte("x")})
	require.NoError(t, err)
	return phonology.New(st, st, rand.New(rand.NewPCG(seed, seed))), alice.ID, bob.ID
}

func TestGenerate_DefaultPhonology(t *testing.T) {
	svc, alice, _ := setup(t, 1)

	words, err := svc.Generate(context.Background(), alice, 0)
	require.NoError(t, err)
	assert.Len(t, words, wordgen.DefaultBatchSize)
	for _, w := range words {
		assert.NotEmpty(t, w)
	}
}

func TestSave_NormalizesAndGenerates(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := setup(t, 2)

	cfg, err := svc.Save(ctx, alice, domain.PhonologyInput{
		Consonants:       []string{" k ", "", "t"},
		Vowels:           []string{"ā"},
		SyllablePatterns: []string{" CV ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "t"}, cfg.Consonants)
	assert.Equal(t, []string{"ā"}, cfg.Vowels)
	assert.Equal(t, []string{"CV"}, cfg.SyllablePatterns)

	words, err := svc.Generate(ctx, alice, 25)
	require.NoError(t, err)
	require.Len(t, words, 25)
	for _, w := range words {
		assert.Equal(t, 2, utf8.RuneCountInString(w), w)
		r, _ := utf8.DecodeRuneInString(w)
		assert.True(t, slices.Contains([]string{"k", "t"}, string(r)), w)
	}

	_, err = svc.Save(ctx, alice, domain.PhonologyInput{Consonants: []string{"p"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_Limits(t *testing.T) {
	svc, alice, _ := setup(t, 3)
	_, err := svc.Generate(context.Background(), alice, phonology.MaxBatch+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GenerateFrom(wordgen.Phonology{}, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, alice, _ := setup(t, 7)
	b, _, _ := setup(t, 7)

	wa, err := a.GenerateFrom(wordgen.DefaultPhonology, 20)
	require.NoError(t, err)
	wb, err := b.GenerateFrom(wordgen.DefaultPhonology, 20)
	require.NoError(t, err)
	assert.Equal(t, wa, wb)

	_, _, err = a.Current(context.Background(), alice)
	require.NoError(t, err)
}

func TestShare(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := setup(t, 4)

	cfg, err := svc.Save(ctx, alice, domain.PhonologyInput{Consonants: []string{"ŋ"}, Vowels: []string{"o"}, SyllablePatterns: []string{"VC"}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Share(ctx, bob, cfg.ID, alice), domain.ErrForbidden)
	require.NoError(t, svc.Share(ctx, alice, cfg.ID, bob))

	current, ok, err := svc.Current(ctx, bob)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cfg.ID, current.ID)

	words, err := svc.Generate(ctx, bob, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"oŋ", "oŋ", "oŋ"}, words)

	shared, err := svc.Shared(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, shared, 1)

	require.NoError(t, svc.Unshare(ctx, alice, cfg.ID, bob))
	_, ok, err = svc.Current(ctx, bob)
	require.NoError(t, err)
	assert.False(t, ok)
}
