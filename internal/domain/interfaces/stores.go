package interfaces

import (
	"context"

	domaintypes "conlang/internal/domain/types"
)

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user domaintypes.User) (domaintypes.User, error)
	GetUserByName(ctx context.Context, username string) (domaintypes.User, bool, error)
	GetUser(ctx context.Context, id domaintypes.UserID) (domaintypes.User, bool, error)
}

// LexiconStore persists lexicon entries with their ownership lists.
type LexiconStore interface {
	ListLexicon(ctx context.Context, user domaintypes.UserID) ([]domaintypes.LexiconEntry, error)
	ListSharedLexicon(ctx context.Context, user domaintypes.UserID) ([]domaintypes.LexiconEntry, error)
	GetLexiconEntry(ctx context.Context, id domaintypes.RecordID) (domaintypes.LexiconEntry, bool, error)
	CreateLexiconEntry(
		ctx context.Context,
		in domaintypes.LexiconInput,
		owner domaintypes.UserID,
	) (domaintypes.LexiconEntry, error)
	UpdateLexiconEntry(
		ctx context.Context,
		id domaintypes.RecordID,
		in domaintypes.LexiconInput,
	) (domaintypes.LexiconEntry, error)
	DeleteLexiconEntry(ctx context.Context, id domaintypes.RecordID) error
	ShareLexiconEntry(ctx context.Context, id domaintypes.RecordID, user domaintypes.UserID) error
	UnshareLexiconEntry(ctx context.Context, id domaintypes.RecordID, user domaintypes.UserID) error
}

// PhonologyStore persists phonology configurations.
type PhonologyStore interface {
	// GetPhonology returns the newest config owned by or shared with user.
	GetPhonology(ctx context.Context, user domaintypes.UserID) (domaintypes.PhonologyConfig, bool, error)
	GetPhonologyByID(ctx context.Context, id domaintypes.RecordID) (domaintypes.PhonologyConfig, bool, error)
	ListSharedPhonology(ctx context.Context, user domaintypes.UserID) ([]domaintypes.PhonologyConfig, error)
	SavePhonology(
		ctx context.Context,
		in domaintypes.PhonologyInput,
		owner domaintypes.UserID,
	) (domaintypes.PhonologyConfig, error)
	SharePhonology(ctx context.Context, id domaintypes.RecordID, user domaintypes.UserID) error
	UnsharePhonology(ctx context.Context, id domaintypes.RecordID, user domaintypes.UserID) error
}

// RuleSetStore persists named sound change rule sets.
type RuleSetStore interface {
	ListRuleSets(ctx context.Context, user domaintypes.UserID) ([]domaintypes.RuleSet, error)
	ListSharedRuleSets(ctx context.Context, user domaintypes.UserID) ([]domaintypes.RuleSet, error)
	GetRuleSet(ctx context.Context, id domaintypes.RecordID) (domaintypes.RuleSet, bool, error)
	CreateRuleSet(
		ctx context.Context,
		in domaintypes.RuleSetInput,
		owner domaintypes.UserID,
	) (domaintypes.RuleSet, error)
	DeleteRuleSet(ctx context.Context, id domaintypes.RecordID) error
	ShareRuleSet(ctx context.Context, id domaintypes.RecordID, user domaintypes.UserID) error
	UnshareRuleSet(ctx context.Context, id domaintypes.RecordID, user domaintypes.UserID) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	LexiconStore
	PhonologyStore
	RuleSetStore
	Close() error
}
