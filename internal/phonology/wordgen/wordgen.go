package wordgen

import (
	"errors"
	"math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultBatchSize is how many words GenerateWords produces when asked for
// a non-positive count.
const DefaultBatchSize = 10

// ErrNoPatterns is returned when a batch is requested without any syllable patterns.
var ErrNoPatterns = errors.New("no syllable patterns")

// Inventory holds the graphemes a language draws from. Duplicates are
// allowed and bias sampling.
type Inventory struct {
	Consonants []string `json:"consonants" yaml:"consonants"`
	Vowels     []string `json:"vowels" yaml:"vowels"`
}

// Phonology is an inventory plus the syllable shapes words are built from.
type Phonology struct {
	Inventory        `yaml:",inline"`
	SyllablePatterns []string `json:"syllablePatterns" yaml:"syllable_patterns"`
}

// DefaultPhonology is used when a user has not saved a configuration.
var DefaultPhonology = Phonology{
	Inventory: Inventory{
		Consonants: []string{"p", "t", "k", "m", "n", "s", "l", "r"},
		Vowels:     []string{"a", "i", "u", "e", "o"},
	},
	SyllablePatterns: []string{"CV", "CVC", "V"},
}

// Generate expands pattern into a word. A nil rng uses the global source.
func Generate(rng *rand.Rand, consonants, vowels []string, pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for _, r := range pattern {
		switch unicode.ToLower(r) {
		case 'c':
			b.WriteString(pick(rng, consonants))
		case 'v':
			b.WriteString(pick(rng, vowels))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateWords produces count words, each from a uniformly chosen pattern.
func GenerateWords(rng *rand.Rand, p Phonology, count int) ([]string, error) {
	if len(p.SyllablePatterns) == 0 {
		return nil, ErrNoPatterns
	}
	if count <= 0 {
		count = DefaultBatchSize
	}
	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		pattern := pick(rng, p.SyllablePatterns)
		words = append(words, Generate(rng, p.Consonants, p.Vowels, pattern))
	}
	return words, nil
}

// Normalize returns a copy of the inventory with every grapheme in NFC and
// blank entries dropped, so generated words line up with normalised rules.
func (inv Inventory) Normalize() Inventory {
	return Inventory{
		Consonants: normalizeAll(inv.Consonants),
		Vowels:     normalizeAll(inv.Vowels),
	}
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, norm.NFC.String(s))
	}
	return out
}

func pick(rng *rand.Rand, items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	if rng == nil {
		return items[rand.IntN(len(items))]
	}
	return items[rng.IntN(len(items))]
}
