package phonology

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"conlang/internal/domain"
	"conlang/internal/phonology/wordgen"
	"conlang/internal/services/access"
)

// MaxBatch bounds a single Generate call.
const MaxBatch = 1000

// Service manages phonology configs and word generation.
type Service struct {
	configs domain.PhonologyStore
	users   domain.UserStore

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New returns a phonology service. A nil rng uses the global source.
func New(configs domain.PhonologyStore, users domain.UserStore, rng *rand.Rand) *Service {
	return &Service{configs: configs, users: users, rng: rng}
}

// Current returns the newest config visible to user.
func (s *Service) Current(ctx context.Context, user domain.UserID) (domain.PhonologyConfig, bool, error) {
	return s.configs.GetPhonology(ctx, user)
}

// Shared returns configs other users shared with user.
func (s *Service) Shared(ctx context.Context, user domain.UserID) ([]domain.PhonologyConfig, error) {
	return s.configs.ListSharedPhonology(ctx, user)
}

// Save stores a new config for user. Graphemes are NFC-normalised and blank
// entries dropped; at least one syllable pattern is required.
func (s *Service) Save(ctx context.Context, user domain.UserID, in domain.PhonologyInput) (domain.PhonologyConfig, error) {
	inv := wordgen.Inventory{Consonants: in.Consonants, Vowels: in.Vowels}.Normalize()
	patterns := make([]string, 0, len(in.SyllablePatterns))
	for _, p := range in.SyllablePatterns {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return domain.PhonologyConfig{}, fmt.Errorf("%w: at least one syllable pattern is required", domain.ErrInvalidInput)
	}
	return s.configs.SavePhonology(ctx, domain.PhonologyInput{
		Consonants:       inv.Consonants,
		Vowels:           inv.Vowels,
		SyllablePatterns: patterns,
	}, user)
}

// Share grants with read access to a config the user owns.
func (s *Service) Share(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	if err := access.CheckShareTarget(ctx, s.users, user, with); err != nil {
		return err
	}
	return s.configs.SharePhonology(ctx, id, with)
}

// Unshare revokes with's access to a config the user owns.
func (s *Service) Unshare(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	return s.configs.UnsharePhonology(ctx, id, with)
}

// Generate produces count words from the user's current config, falling back
// to wordgen.DefaultPhonology when they have none.
func (s *Service) Generate(ctx context.Context, user domain.UserID, count int) ([]string, error) {
	p := wordgen.DefaultPhonology
	cfg, ok, err := s.configs.GetPhonology(ctx, user)
	if err != nil {
		return nil, err
	}
	if ok {
		p = ToWordgen(cfg)
	}
	return s.GenerateFrom(p, count)
}

// GenerateFrom produces count words from an explicit phonology.
func (s *Service) GenerateFrom(p wordgen.Phonology, count int) ([]string, error) {
	if count > MaxBatch {
		return nil, fmt.Errorf("%w: count must be at most %d", domain.ErrInvalidInput, MaxBatch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := wordgen.GenerateWords(s.rng, p, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return words, nil
}

// ToWordgen converts a stored config to the generator's form.
func ToWordgen(cfg domain.PhonologyConfig) wordgen.Phonology {
	return wordgen.Phonology{
		Inventory:        wordgen.Inventory{Consonants: cfg.Consonants, Vowels: cfg.Vowels},
		SyllablePatterns: cfg.SyllablePatterns,
	}
}

func (s *Service) authorize(ctx context.Context, user domain.UserID, id domain.RecordID) error {
	cfg, ok, err := s.configs.GetPhonologyByID(ctx, id)
	if err != nil {
		return err
	}
	return access.RequireOwner(ok, cfg.CreatedBy, user)
}

// Compile-time assertion that Service implements domain.PhonologyService.
var _ domain.PhonologyService = (*Service)(nil)
