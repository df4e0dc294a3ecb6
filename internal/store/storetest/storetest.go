// Package storetest holds the behaviour suite every domain.Store backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conlang/internal/domain"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) domain.Store

// Run exercises users, lexicon, phonology and rule set semantics against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Lexicon", func(t *testing.T) { testLexicon(t, newStore(t)) })
	t.Run("Phonology", func(t *testing.T) { testPhonology(t, newStore(t)) })
	t.Run("RuleSets", func(t *testing.T) { testRuleSets(t, newStore(t)) })
	t.Run("Isolation", func(t *testing.T) { testIsolation(t, newStore(t)) })
}

func mustUser(t *testing.T, s domain.Store, name string) domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), domain.User{Username: name, PasswordHash: []byte("hash-" + name)})
	require.NoError(t, err)
	return u
}

func testUsers(t *testing.T, s domain.Store) {
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: []byte("h1"), DisplayName: "Alice"})
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)

	_, err = s.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: []byte("h2")})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	bob := mustUser(t, s, "bob")
	assert.NotEqual(t, alice.ID, bob.ID)

	got, ok, err := s.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(alice, got); diff != "" {
		t.Fatalf("GetUserByName mismatch (-want +got):\n%s", diff)
	}

	got, ok, err = s.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bob", got.Username)

	_, ok, err = s.GetUserByName(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.GetUser(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testLexicon(t *testing.T, s domain.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	water, err := s.CreateLexiconEntry(ctx, domain.LexiconInput{Word: "aka", Definition: "water", Category: "noun"}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, water.CreatedBy)
	assert.Empty(t, water.SharedWith)

	run, err := s.CreateLexiconEntry(ctx, domain.LexiconInput{Word: "tisu", Definition: "to run", Category: "verb"}, bob.ID)
	require.NoError(t, err)
	assert.Greater(t, run.ID, water.ID)

	list, err := s.ListLexicon(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "aka", list[0].Word)

	require.NoError(t, s.ShareLexiconEntry(ctx, run.ID, alice.ID))
	require.NoError(t, s.ShareLexiconEntry(ctx, run.ID, alice.ID))

	list, err = s.ListLexicon(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []domain.RecordID{water.ID, run.ID}, []domain.RecordID{list[0].ID, list[1].ID})

	shared, err := s.ListSharedLexicon(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, []domain.UserID{alice.ID}, shared[0].SharedWith)

	updated, err := s.UpdateLexiconEntry(ctx, water.ID, domain.LexiconInput{Word: "aka", Definition: "fresh water", Category: "noun", Notes: "archaic"})
	require.NoError(t, err)
	want := water
	want.Definition = "fresh water"
	want.Notes = "archaic"
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("UpdateLexiconEntry mismatch (-want +got):\n%s", diff)
	}

	got, ok, err := s.GetLexiconEntry(ctx, water.ID)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GetLexiconEntry mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, s.UnshareLexiconEntry(ctx, run.ID, alice.ID))
	require.NoError(t, s.UnshareLexiconEntry(ctx, run.ID, alice.ID))
	shared, err = s.ListSharedLexicon(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)

	require.NoError(t, s.DeleteLexiconEntry(ctx, water.ID))
	_, ok, err = s.GetLexiconEntry(ctx, water.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.DeleteLexiconEntry(ctx, water.ID), domain.ErrNotFound)
	_, err = s.UpdateLexiconEntry(ctx, water.ID, domain.LexiconInput{Word: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.ShareLexiconEntry(ctx, water.ID, bob.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.UnshareLexiconEntry(ctx, water.ID, bob.ID), domain.ErrNotFound)
}

func testPhonology(t *testing.T, s domain.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	_, ok, err := s.GetPhonology(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := s.SavePhonology(ctx, domain.PhonologyInput{
		Consonants: []string{"p", "t"}, Vowels: []string{"a"}, SyllablePatterns: []string{"CV"},
	}, alice.ID)
	require.NoError(t, err)

	second, err := s.SavePhonology(ctx, domain.PhonologyInput{
		Consonants: []string{"k"}, Vowels: []string{"i", "u"}, SyllablePatterns: []string{"CVC"},
	}, alice.ID)
	require.NoError(t, err)

	current, ok, err := s.GetPhonology(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(second, current); diff != "" {
		t.Fatalf("GetPhonology mismatch (-want +got):\n%s", diff)
	}

	byID, ok, err := s.GetPhonologyByID(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"p", "t"}, byID.Consonants)

	_, ok, err = s.GetPhonology(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SharePhonology(ctx, first.ID, bob.ID))
	got, ok, err := s.GetPhonology(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)

	shared, err := s.ListSharedPhonology(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)

	require.NoError(t, s.UnsharePhonology(ctx, first.ID, bob.ID))
	shared, err = s.ListSharedPhonology(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, shared)

	assert.ErrorIs(t, s.SharePhonology(ctx, 9999, bob.ID), domain.ErrNotFound)
}

func testRuleSets(t *testing.T, s domain.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	lenition, err := s.CreateRuleSet(ctx, domain.RuleSetInput{Name: "lenition", Rules: []string{"p > b / V_V", "b > v / V_V"}}, alice.ID)
	require.NoError(t, err)
	apocope, err := s.CreateRuleSet(ctx, domain.RuleSetInput{Name: "apocope", Rules: []string{"a > Ø / _$"}}, alice.ID)
	require.NoError(t, err)

	list, err := s.ListRuleSets(ctx, alice.ID)
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.RuleSet{lenition, apocope}, list); diff != "" {
		t.Fatalf("ListRuleSets mismatch (-want +got):\n%s", diff)
	}

	list, err = s.ListRuleSets(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.ShareRuleSet(ctx, apocope.ID, bob.ID))
	list, err = s.ListRuleSets(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "apocope", list[0].Name)

	shared, err := s.ListSharedRuleSets(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)

	got, ok, err := s.GetRuleSet(ctx, lenition.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"p > b / V_V", "b > v / V_V"}, got.Rules)

	require.NoError(t, s.UnshareRuleSet(ctx, apocope.ID, bob.ID))
	require.NoError(t, s.DeleteRuleSet(ctx, lenition.ID))
	_, ok, err = s.GetRuleSet(ctx, lenition.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, s.DeleteRuleSet(ctx, lenition.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.ShareRuleSet(ctx, lenition.ID, bob.ID), domain.ErrNotFound)
}

// testIsolation checks callers cannot mutate stored records through returned slices.
func testIsolation(t *testing.T, s domain.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	rules := []string{"p > b"}
	rs, err := s.CreateRuleSet(ctx, domain.RuleSetInput{Name: "r", Rules: rules}, alice.ID)
	require.NoError(t, err)
	rules[0] = "mutated"
	rs.Rules[0] = "mutated too"

	got, ok, err := s.GetRuleSet(ctx, rs.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"p > b"}, got.Rules)
}
