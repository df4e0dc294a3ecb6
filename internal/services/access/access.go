// Package access holds the ownership checks shared by the record services.
package access

import (
	"context"
	"fmt"

	"conlang/internal/domain"
)

// RequireOwner maps a store lookup to ErrNotFound or ErrForbidden unless user owns the record.
func RequireOwner(found bool, owner, user domain.UserID) error {
	if !found {
		return domain.ErrNotFound
	}
	if owner != user {
		return domain.ErrForbidden
	}
	return nil
}

// CheckShareTarget rejects sharing with oneself or with an unknown user.
func CheckShareTarget(ctx context.Context, users domain.UserStore, owner, with domain.UserID) error {
	if owner == with {
		return fmt.Errorf("%w: cannot share with yourself", domain.ErrInvalidInput)
	}
	_, ok, err := users.GetUser(ctx, with)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s: %w", with, domain.ErrNotFound)
	}
	return nil
}
