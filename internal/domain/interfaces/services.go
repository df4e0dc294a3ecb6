package interfaces

import (
	"context"

	domaintypes "conlang/internal/domain/types"
)

// AccountService registers and authenticates users.
type AccountService interface {
	Register(ctx context.Context, in domaintypes.NewUser) (domaintypes.PublicUser, error)
	Authenticate(ctx context.Context, username, password string) (domaintypes.PublicUser, error)
	GetUser(ctx context.Context, id domaintypes.UserID) (domaintypes.PublicUser, error)
}

// LexiconService manages lexicon entries on behalf of a user.
type LexiconService interface {
	List(ctx context.Context, user domaintypes.UserID) ([]domaintypes.LexiconEntry, error)
	Shared(ctx context.Context, user domaintypes.UserID) ([]domaintypes.LexiconEntry, error)
	Get(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID) (domaintypes.LexiconEntry, error)
	Create(ctx context.Context, user domaintypes.UserID, in domaintypes.LexiconInput) (domaintypes.LexiconEntry, error)
	Update(
		ctx context.Context,
		user domaintypes.UserID,
		id domaintypes.RecordID,
		in domaintypes.LexiconInput,
	) (domaintypes.LexiconEntry, error)
	Delete(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID) error
	Share(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID, with domaintypes.UserID) error
	Unshare(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID, with domaintypes.UserID) error
}

// PhonologyService stores inventories and generates words from them.
type PhonologyService interface {
	Current(ctx context.Context, user domaintypes.UserID) (domaintypes.PhonologyConfig, bool, error)
	Shared(ctx context.Context, user domaintypes.UserID) ([]domaintypes.PhonologyConfig, error)
	Save(ctx context.Context, user domaintypes.UserID, in domaintypes.PhonologyInput) (domaintypes.PhonologyConfig, error)
	Share(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID, with domaintypes.UserID) error
	Unshare(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID, with domaintypes.UserID) error
	Generate(ctx context.Context, user domaintypes.UserID, count int) ([]string, error)
}

// SoundChangeService manages rule sets and applies them to words.
type SoundChangeService interface {
	List(ctx context.Context, user domaintypes.UserID) ([]domaintypes.RuleSet, error)
	Shared(ctx context.Context, user domaintypes.UserID) ([]domaintypes.RuleSet, error)
	Create(ctx context.Context, user domaintypes.UserID, in domaintypes.RuleSetInput) (domaintypes.RuleSet, error)
	Delete(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID) error
	Share(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID, with domaintypes.UserID) error
	Unshare(ctx context.Context, user domaintypes.UserID, id domaintypes.RecordID, with domaintypes.UserID) error
	Apply(
		ctx context.Context,
		user domaintypes.UserID,
		word string,
		ruleSetIDs []domaintypes.RecordID,
	) (domaintypes.SoundChangeResult, error)
	ApplyRules(ctx context.Context, word string, rules []string) domaintypes.SoundChangeResult
}
