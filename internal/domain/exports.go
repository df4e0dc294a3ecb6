package domain

import (
	interfaces "conlang/internal/domain/interfaces"
	types "conlang/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UserID            = types.UserID
	RecordID          = types.RecordID
	Ownership         = types.Ownership
	User              = types.User
	PublicUser        = types.PublicUser
	NewUser           = types.NewUser
	LexiconEntry      = types.LexiconEntry
	LexiconInput      = types.LexiconInput
	PhonologyConfig   = types.PhonologyConfig
	PhonologyInput    = types.PhonologyInput
	RuleSet           = types.RuleSet
	RuleSetInput      = types.RuleSetInput
	SkippedRule       = types.SkippedRule
	RuleStep          = types.RuleStep
	SoundChangeResult = types.SoundChangeResult
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	UserStore          = interfaces.UserStore
	LexiconStore       = interfaces.LexiconStore
	PhonologyStore     = interfaces.PhonologyStore
	RuleSetStore       = interfaces.RuleSetStore
	Store              = interfaces.Store
	AccountService     = interfaces.AccountService
	LexiconService     = interfaces.LexiconService
	PhonologyService   = interfaces.PhonologyService
	SoundChangeService = interfaces.SoundChangeService
)

// Sentinel errors re-exported from the types subpackage.
var (
	ErrNotFound           = types.ErrNotFound
	ErrForbidden          = types.ErrForbidden
	ErrUsernameTaken      = types.ErrUsernameTaken
	ErrInvalidCredentials = types.ErrInvalidCredentials
	ErrInvalidInput       = types.ErrInvalidInput
)

// Lexicon categories.
const (
	CategoryNoun      = types.CategoryNoun
	CategoryVerb      = types.CategoryVerb
	CategoryAdjective = types.CategoryAdjective
	CategoryAdverb    = types.CategoryAdverb
)
