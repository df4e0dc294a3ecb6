package soundchange_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"conlang/internal/domain"
	"conlang/internal/services/soundchange"
	"conlang/internal/store"
)

type fixture struct {
	svc        *soundchange.Service
	logs       *observer.ObservedLogs
	alice, bob domain.UserID
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	alice, err := st.CreateUser(ctx, domain.User{Username: "alice", PasswordHash: []byte("x")})
	require.NoError(t, err)
	bob, err := st.CreateUser(ctx, domain.User{Username: "bob", PasswordHash: []byte("x")})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	return fixture{
		svc:   soundchange.New(st, st, nil, zap.New(core)),
		logs:  logs,
		alice: alice.ID,
		bob:   bob.ID,
	}
}

func TestApply_FlattensInStorageOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	voicing, err := f.svc.Create(ctx, f.alice, domain.RuleSetInput{Name: "voicing", Rules: []string{"p > b"}})
	require.NoError(t, err)
	nasal, err := f.svc.Create(ctx, f.alice, domain.RuleSetInput{Name: "nasalisation", Rules: []string{"b > m", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b > m"}, nasal.Rules)

	res, err := f.svc.Apply(ctx, f.alice, "papa", nil)
	require.NoError(t, err)
	assert.Equal(t, "mama", res.Output)
	assert.Equal(t, []domain.RuleStep{{Rule: "p > b", Output: "baba"}, {Rule: "b > m", Output: "mama"}}, res.Steps)

	// Explicit selection is still applied in storage order.
	res, err = f.svc.Apply(ctx, f.alice, "papa", []domain.RecordID{nasal.ID, voicing.ID})
	require.NoError(t, err)
	assert.Equal(t, "mama", res.Output)

	res, err = f.svc.Apply(ctx, f.alice, "papa", []domain.RecordID{nasal.ID})
	require.NoError(t, err)
	assert.Equal(t, "papa", res.Output)
}

func TestApply_SkippedRulesAreReportedAndLogged(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.Create(ctx, f.alice, domain.RuleSetInput{Name: "mixed", Rules: []string{"not a rule", "t > d"}})
	require.NoError(t, err)

	res, err := f.svc.Apply(ctx, f.alice, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, "desd", res.Output)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 0, res.Skipped[0].Index)
	assert.Equal(t, "not a rule", res.Skipped[0].Rule)
	assert.Contains(t, res.Skipped[0].Error, "malformed rule")

	entries := f.logs.FilterMessage("sound change rule skipped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "not a rule", entries[0].ContextMap()["rule"])
}

func TestApply_Access(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	private, err := f.svc.Create(ctx, f.alice, domain.RuleSetInput{Name: "private", Rules: []string{"a > e"}})
	require.NoError(t, err)

	_, err = f.svc.Apply(ctx, f.bob, "pata", []domain.RecordID{private.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Apply(ctx, f.bob, "pata", []domain.RecordID{9999})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Apply(ctx, f.bob, "  ", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Nothing visible yet: identity.
	res, err := f.svc.Apply(ctx, f.bob, "pata", nil)
	require.NoError(t, err)
	assert.Equal(t, "pata", res.Output)

	require.NoError(t, f.svc.Share(ctx, f.alice, private.ID, f.bob))
	res, err = f.svc.Apply(ctx, f.bob, "pata", []domain.RecordID{private.ID})
	require.NoError(t, err)
	assert.Equal(t, "pete", res.Output)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, private.ID), domain.ErrForbidden)
	require.NoError(t, f.svc.Unshare(ctx, f.alice, private.ID, f.bob))
	require.NoError(t, f.svc.Delete(ctx, f.alice, private.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice, private.ID), domain.ErrNotFound)
}

func TestCreate_RequiresName(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Create(context.Background(), f.alice, domain.RuleSetInput{Name: " ", Rules: []string{"a > e"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyRules(t *testing.T) {
	f := setup(t)
	res := f.svc.ApplyRules(context.Background(), "haha", []string{"h > Ø / V_V"})
	assert.Equal(t, domain.SoundChangeResult{
		Input:  "haha",
		Output: "haa",
		Steps:  []domain.RuleStep{{Rule: "h > Ø / V_V", Output: "haa"}},
	}, res)
}
