package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"conlang/internal/domain"
)

const (
	// minPasswordLength defines the minimum number of characters required for a password.
	minPasswordLength = 8
	// maxUsernameLength bounds usernames in characters.
	maxUsernameLength = 64
)

var (
	// ErrWeakPassword is returned when the password fails the strength policy.
	ErrWeakPassword = fmt.Errorf(
		"%w: password is too weak (must be at least %d characters and include a letter and a number)",
		domain.ErrInvalidInput,
		minPasswordLength,
	)
	// ErrInvalidUsername is returned for empty, over-long or whitespace-containing usernames.
	ErrInvalidUsername = fmt.Errorf(
		"%w: username must be 1-%d characters without spaces",
		domain.ErrInvalidInput,
		maxUsernameLength,
	)
)

// Service manages accounts using a backing store.
type Service struct {
	store domain.UserStore
	cost  int
}

// New returns an account service. A non-positive cost selects bcrypt.DefaultCost.
func New(s domain.UserStore, cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: s, cost: cost}
}

// Register validates the form, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, in domain.NewUser) (domain.PublicUser, error) {
	username := strings.TrimSpace(in.Username)
	if !isValidUsername(username) {
		return domain.PublicUser{}, ErrInvalidUsername
	}
	if !isSecurePassword(in.Password) {
		return domain.PublicUser{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}
	u, err := s.store.CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
	})
	if err != nil {
		return domain.PublicUser{}, err
	}
	return u.Public(), nil
}

// Authenticate checks the password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.PublicUser, error) {
	u, ok, err := s.store.GetUserByName(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.PublicUser{}, err
	}
	if !ok {
		return domain.PublicUser{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.PublicUser{}, domain.ErrInvalidCredentials
		}
		return domain.PublicUser{}, err
	}
	return u.Public(), nil
}

// GetUser returns the public profile for id.
func (s *Service) GetUser(ctx context.Context, id domain.UserID) (domain.PublicUser, error) {
	u, ok, err := s.store.GetUser(ctx, id)
	if err != nil {
		return domain.PublicUser{}, err
	}
	if !ok {
		return domain.PublicUser{}, domain.ErrNotFound
	}
	return u.Public(), nil
}

func isValidUsername(username string) bool {
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return false
	}
	return !strings.ContainsFunc(username, unicode.IsSpace)
}

// isSecurePassword enforces a basic strength policy.
func isSecurePassword(password string) bool {
	var hasLetter, hasDigit bool
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Compile-time assertion that Service implements domain.AccountService.
var _ domain.AccountService = (*Service)(nil)
