package lexicon

import (
	"context"
	"fmt"
	"strings"

	"conlang/internal/domain"
	"conlang/internal/services/access"
)

// Service manages lexicon entries on behalf of users.
type Service struct {
	entries domain.LexiconStore
	users   domain.UserStore
}

// New returns a lexicon service. users is consulted when sharing.
func New(entries domain.LexiconStore, users domain.UserStore) *Service {
	return &Service{entries: entries, users: users}
}

// List returns every entry the user owns or has been shared.
func (s *Service) List(ctx context.Context, user domain.UserID) ([]domain.LexiconEntry, error) {
	return s.entries.ListLexicon(ctx, user)
}

// Shared returns only the entries other users shared with user.
func (s *Service) Shared(ctx context.Context, user domain.UserID) ([]domain.LexiconEntry, error) {
	return s.entries.ListSharedLexicon(ctx, user)
}

// Get returns one entry if it is visible to user.
func (s *Service) Get(ctx context.Context, user domain.UserID, id domain.RecordID) (domain.LexiconEntry, error) {
	e, ok, err := s.entries.GetLexiconEntry(ctx, id)
	if err != nil {
		return domain.LexiconEntry{}, err
	}
	if !ok {
		return domain.LexiconEntry{}, domain.ErrNotFound
	}
	if !e.VisibleTo(user) {
		return domain.LexiconEntry{}, domain.ErrForbidden
	}
	return e, nil
}

// Create stores a new entry owned by user.
func (s *Service) Create(ctx context.Context, user domain.UserID, in domain.LexiconInput) (domain.LexiconEntry, error) {
	in, err := normalize(in)
	if err != nil {
		return domain.LexiconEntry{}, err
	}
	return s.entries.CreateLexiconEntry(ctx, in, user)
}

// Update replaces the writable fields of an entry the user owns.
func (s *Service) Update(
	ctx context.Context,
	user domain.UserID,
	id domain.RecordID,
	in domain.LexiconInput,
) (domain.LexiconEntry, error) {
	if err := s.authorize(ctx, user, id); err != nil {
		return domain.LexiconEntry{}, err
	}
	in, err := normalize(in)
	if err != nil {
		return domain.LexiconEntry{}, err
	}
	return s.entries.UpdateLexiconEntry(ctx, id, in)
}

// Delete removes an entry the user owns.
func (s *Service) Delete(ctx context.Context, user domain.UserID, id domain.RecordID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	return s.entries.DeleteLexiconEntry(ctx, id)
}

// Share grants with read access to an entry the user owns.
func (s *Service) Share(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	if err := access.CheckShareTarget(ctx, s.users, user, with); err != nil {
		return err
	}
	return s.entries.ShareLexiconEntry(ctx, id, with)
}

// Unshare revokes with's access. Revoking a user who has no access is a no-op.
func (s *Service) Unshare(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	return s.entries.UnshareLexiconEntry(ctx, id, with)
}

// authorize requires id to exist and be owned by user.
func (s *Service) authorize(ctx context.Context, user domain.UserID, id domain.RecordID) error {
	e, ok, err := s.entries.GetLexiconEntry(ctx, id)
	if err != nil {
		return err
	}
	return access.RequireOwner(ok, e.CreatedBy, user)
}

func normalize(in domain.LexiconInput) (domain.LexiconInput, error) {
	in.Word = strings.TrimSpace(in.Word)
	in.Definition = strings.TrimSpace(in.Definition)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Word == "" {
		return in, fmt.Errorf("%w: word is required", domain.ErrInvalidInput)
	}
	if in.Category == "" {
		in.Category = domain.CategoryNoun
	}
	return in, nil
}

// Compile-time assertion that Service implements domain.LexiconService.
var _ domain.LexiconService = (*Service)(nil)
