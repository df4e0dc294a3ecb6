package soundchange

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// Deletion is the replacement glyph meaning "delete the match".
	Deletion = "Ø"

	// VowelMacro and ConsonantMacro are the two environment class tokens.
	VowelMacro     = "V"
	ConsonantMacro = "C"

	// VowelClass is what VowelMacro expands to.
	VowelClass = "[aeiouāēīōū]"
	// ConsonantClass is what ConsonantMacro expands to: anything that is not a vowel.
	ConsonantClass = "[^aeiouāēīōū]"
)

var (
	// ErrMalformedRule is returned for rules missing a from/to part.
	ErrMalformedRule = errors.New("malformed rule")
	// ErrPatternCompile is returned when the constructed pattern is not valid.
	ErrPatternCompile = errors.New("pattern does not compile")
	// ErrMatch is returned when the replace pass fails, typically because it
	// exceeded the match time budget.
	ErrMatch = errors.New("rule could not be applied")
)

// Rule is a parsed sound change directive. Before and After hold the
// environment as written; macro expansion happens in Pattern.
type Rule struct {
	Source         string
	From           string
	To             string
	Before         string
	After          string
	HasEnvironment bool
}

// Parse splits a rule string into its parts. It does not compile the pattern.
func Parse(rule string) (Rule, error) {
	source := norm.NFC.String(rule)
	r := Rule{Source: source}

	slash := strings.Split(source, "/")
	mainPart := strings.TrimSpace(slash[0])
	if mainPart == "" {
		return r, fmt.Errorf("%w: empty rule", ErrMalformedRule)
	}

	arrow := strings.Split(mainPart, ">")
	r.From = strings.TrimSpace(arrow[0])
	var to string
	if len(arrow) > 1 {
		to = strings.TrimSpace(arrow[1])
	}
	if r.From == "" || to == "" {
		return r, fmt.Errorf("%w: want \"from > to\", got %q", ErrMalformedRule, mainPart)
	}
	if to != Deletion {
		r.To = to
	}

	if len(slash) > 1 {
		env := strings.TrimSpace(slash[1])
		if env != "" {
			r.HasEnvironment = true
			sides := strings.Split(env, "_")
			r.Before = strings.TrimSpace(sides[0])
			if len(sides) > 1 {
				r.After = strings.TrimSpace(sides[1])
			}
		}
	}
	return r, nil
}

// Pattern builds the matcher expression: from wrapped in lookbehind and
// lookahead assertions for the environment.
func (r Rule) Pattern() string {
	var b strings.Builder
	if before := expandMacro(r.Before); before != "" {
		b.WriteString("(?<=")
		b.WriteString(before)
		b.WriteString(")")
	}
	b.WriteString(r.From)
	if after := expandMacro(r.After); after != "" {
		b.WriteString("(?=")
		b.WriteString(after)
		b.WriteString(")")
	}
	return b.String()
}

// String renders the rule in canonical notation.
func (r Rule) String() string {
	to := r.To
	if to == "" {
		to = Deletion
	}
	s := r.From + " > " + to
	if r.HasEnvironment {
		s += " / " + r.Before + "_" + r.After
	}
	return s
}

// expandMacro only recognises the bare tokens; V inside a longer string is literal.
func expandMacro(side string) string {
	switch side {
	case VowelMacro:
		return VowelClass
	case ConsonantMacro:
		return ConsonantClass
	default:
		return side
	}
}
