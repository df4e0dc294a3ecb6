package soundchange

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"conlang/internal/domain"
	"conlang/internal/phonology/soundchange"
	"conlang/internal/services/access"
)

// Service manages rule sets and applies them.
type Service struct {
	sets   domain.RuleSetStore
	users  domain.UserStore
	engine *soundchange.Engine
	log    *zap.Logger
}

// New returns a sound change service. A nil engine or logger gets a default.
func New(sets domain.RuleSetStore, users domain.UserStore, engine *soundchange.Engine, log *zap.Logger) *Service {
	if engine == nil {
		engine = soundchange.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{sets: sets, users: users, engine: engine, log: log}
}

// List returns every rule set the user owns or has been shared, in storage order.
func (s *Service) List(ctx context.Context, user domain.UserID) ([]domain.RuleSet, error) {
	return s.sets.ListRuleSets(ctx, user)
}

// Shared returns rule sets other users shared with user.
func (s *Service) Shared(ctx context.Context, user domain.UserID) ([]domain.RuleSet, error) {
	return s.sets.ListSharedRuleSets(ctx, user)
}

// Create stores a named rule set owned by user. Blank rule lines are dropped.
func (s *Service) Create(ctx context.Context, user domain.UserID, in domain.RuleSetInput) (domain.RuleSet, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.RuleSet{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	rules := make([]string, 0, len(in.Rules))
	for _, r := range in.Rules {
		if strings.TrimSpace(r) != "" {
			rules = append(rules, r)
		}
	}
	return s.sets.CreateRuleSet(ctx, domain.RuleSetInput{Name: name, Rules: rules}, user)
}

// Delete removes a rule set the user owns.
func (s *Service) Delete(ctx context.Context, user domain.UserID, id domain.RecordID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	return s.sets.DeleteRuleSet(ctx, id)
}

// Share grants with read access to a rule set the user owns.
func (s *Service) Share(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	if err := access.CheckShareTarget(ctx, s.users, user, with); err != nil {
		return err
	}
	return s.sets.ShareRuleSet(ctx, id, with)
}

// Unshare revokes with's access to a rule set the user owns.
func (s *Service) Unshare(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error {
	if err := s.authorize(ctx, user, id); err != nil {
		return err
	}
	return s.sets.UnshareRuleSet(ctx, id, with)
}

// Apply runs word through the selected rule sets, or through every visible
// set when ruleSetIDs is empty. Sets are flattened in storage order.
func (s *Service) Apply(
	ctx context.Context,
	user domain.UserID,
	word string,
	ruleSetIDs []domain.RecordID,
) (domain.SoundChangeResult, error) {
	if strings.TrimSpace(word) == "" {
		return domain.SoundChangeResult{}, fmt.Errorf("%w: word is required", domain.ErrInvalidInput)
	}

	sets, err := s.selectSets(ctx, user, ruleSetIDs)
	if err != nil {
		return domain.SoundChangeResult{}, err
	}
	var rules []string
	for _, set := range sets {
		rules = append(rules, set.Rules...)
	}
	return s.ApplyRules(ctx, word, rules), nil
}

// ApplyRules runs word through an ad-hoc rule list.
func (s *Service) ApplyRules(ctx context.Context, word string, rules []string) domain.SoundChangeResult {
	res := s.engine.ApplyWithDiagnostics(word, rules)

	out := domain.SoundChangeResult{Input: res.Input, Output: res.Word}
	for _, step := range res.Steps {
		out.Steps = append(out.Steps, domain.RuleStep{Rule: step.Rule, Output: step.Output})
	}
	for _, d := range res.Skipped {
		s.log.Warn("sound change rule skipped",
			zap.Int("index", d.Index),
			zap.String("rule", d.Rule),
			zap.Error(d.Err),
		)
		out.Skipped = append(out.Skipped, domain.SkippedRule{Index: d.Index, Rule: d.Rule, Error: d.Err.Error()})
	}
	return out
}

func (s *Service) selectSets(ctx context.Context, user domain.UserID, ids []domain.RecordID) ([]domain.RuleSet, error) {
	if len(ids) == 0 {
		return s.sets.ListRuleSets(ctx, user)
	}

	seen := make(map[domain.RecordID]bool, len(ids))
	sets := make([]domain.RuleSet, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		set, ok, err := s.sets.GetRuleSet(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("rule set %s: %w", id, domain.ErrNotFound)
		}
		if !set.VisibleTo(user) {
			return nil, fmt.Errorf("rule set %s: %w", id, domain.ErrForbidden)
		}
		sets = append(sets, set)
	}
	slices.SortFunc(sets, func(a, b domain.RuleSet) int { return cmp.Compare(a.ID, b.ID) })
	return sets, nil
}

func (s *Service) authorize(ctx context.Context, user domain.UserID, id domain.RecordID) error {
	set, ok, err := s.sets.GetRuleSet(ctx, id)
	if err != nil {
		return err
	}
	return access.RequireOwner(ok, set.CreatedBy, user)
}

// Compile-time assertion that Service implements domain.SoundChangeService.
var _ domain.SoundChangeService = (*Service)(nil)
