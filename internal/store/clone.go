package store

import (
	"slices"
	"sort"

	"conlang/internal/domain"
)

func cloneOwnership(o domain.Ownership) domain.Ownership {
	shared := slices.Clone(o.SharedWith)
	if shared == nil {
		shared = []domain.UserID{}
	}
	return domain.Ownership{CreatedBy: o.CreatedBy, SharedWith: shared}
}

func cloneUser(u domain.User) domain.User {
	u.PasswordHash = slices.Clone(u.PasswordHash)
	return u
}

func cloneLexicon(e domain.LexiconEntry) domain.LexiconEntry {
	e.Ownership = cloneOwnership(e.Ownership)
	return e
}

func clonePhonology(p domain.PhonologyConfig) domain.PhonologyConfig {
	p.Consonants = slices.Clone(p.Consonants)
	p.Vowels = slices.Clone(p.Vowels)
	p.SyllablePatterns = slices.Clone(p.SyllablePatterns)
	p.Ownership = cloneOwnership(p.Ownership)
	return p
}

func cloneRuleSet(r domain.RuleSet) domain.RuleSet {
	r.Rules = slices.Clone(r.Rules)
	r.Ownership = cloneOwnership(r.Ownership)
	return r
}

// sortedValues returns the map values in ascending id order.
func sortedValues[K comparable, V any](m map[K]V, id func(V) int64) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

func filterLexicon(m map[domain.RecordID]domain.LexiconEntry, keep func(domain.LexiconEntry) bool) []domain.LexiconEntry {
	out := make([]domain.LexiconEntry, 0)
	for _, e := range sortedValues(m, func(e domain.LexiconEntry) int64 { return int64(e.ID) }) {
		if keep(e) {
			out = append(out, cloneLexicon(e))
		}
	}
	return out
}

func filterRuleSets(m map[domain.RecordID]domain.RuleSet, keep func(domain.RuleSet) bool) []domain.RuleSet {
	out := make([]domain.RuleSet, 0)
	for _, r := range sortedValues(m, func(r domain.RuleSet) int64 { return int64(r.ID) }) {
		if keep(r) {
			out = append(out, cloneRuleSet(r))
		}
	}
	return out
}
