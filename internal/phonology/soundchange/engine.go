package soundchange

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMatchTimeout bounds a single rule's replace pass.
	DefaultMatchTimeout = 250 * time.Millisecond
	// DefaultCacheSize is the number of compiled rules an Engine keeps.
	DefaultCacheSize = 1024
)

// Compiled is a rule ready to run.
type Compiled struct {
	Rule Rule
	re   *regexp2.Regexp
}

// Replace substitutes every match in word.
func (c *Compiled) Replace(word string) (string, error) {
	out, err := c.re.Replace(word, c.Rule.To, -1, -1)
	if err != nil {
		return word, fmt.Errorf("%w: %v", ErrMatch, err)
	}
	return out, nil
}

// Step is the working string after one successfully applied rule.
type Step struct {
	Index  int
	Rule   string
	Output string
}

// Diagnostic explains why a rule was skipped.
type Diagnostic struct {
	Index int
	Rule  string
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("rule %d %q: %v", d.Index+1, d.Rule, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Result is the outcome of one Apply call.
type Result struct {
	Input   string
	Word    string
	Steps   []Step
	Skipped []Diagnostic
}

type cacheEntry struct {
	compiled *Compiled
	err      error
}

// Engine compiles and applies rules, caching compiled rules by their text.
type Engine struct {
	timeout   time.Duration
	cacheSize int

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatchTimeout sets the per-rule match budget. Non-positive disables it.
func WithMatchTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithCacheSize sets how many compiled rules are kept. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cacheSize = n }
}

// New returns an Engine with the given options applied.
func New(opts ...Option) *Engine {
	e := &Engine{
		timeout:   DefaultMatchTimeout,
		cacheSize: DefaultCacheSize,
		cache:     make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile parses rule and compiles its pattern.
func (e *Engine) Compile(rule string) (*Compiled, error) {
	if e.cacheSize > 0 {
		e.mu.Lock()
		entry, ok := e.cache[rule]
		e.mu.Unlock()
		if ok {
			return entry.compiled, entry.err
		}
	}

	c, err := e.compile(rule)

	if e.cacheSize > 0 {
		e.mu.Lock()
		if len(e.cache) >= e.cacheSize {
			clear(e.cache)
		}
		e.cache[rule] = cacheEntry{compiled: c, err: err}
		e.mu.Unlock()
	}
	return c, err
}

func (e *Engine) compile(rule string) (*Compiled, error) {
	parsed, err := Parse(rule)
	if err != nil {
		return nil, err
	}
	// Rules are written against JavaScript regex semantics: ASCII \w and \d,
	// and $ only at the very end.
	re, err := regexp2.Compile(parsed.Pattern(), regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatternCompile, err)
	}
	if e.timeout > 0 {
		re.MatchTimeout = e.timeout
	}
	return &Compiled{Rule: parsed, re: re}, nil
}

// Apply runs rules over word in order and returns the final string.
func (e *Engine) Apply(word string, rules []string) string {
	return e.ApplyWithDiagnostics(word, rules).Word
}

// ApplyWithDiagnostics runs rules over word in order, recording each applied
// step and every skipped rule.
//
// Rules match against the NFC form of the working string, but the string is
// only replaced when a rule changes it: a word no rule touches comes back
// byte for byte as given, decomposed or not.
func (e *Engine) ApplyWithDiagnostics(word string, rules []string) Result {
	res := Result{Input: word, Word: word}
	for i, rule := range rules {
		c, err := e.Compile(rule)
		if err != nil {
			res.Skipped = append(res.Skipped, Diagnostic{Index: i, Rule: rule, Err: err})
			continue
		}
		composed := norm.NFC.String(res.Word)
		out, err := c.Replace(composed)
		if err != nil {
			res.Skipped = append(res.Skipped, Diagnostic{Index: i, Rule: rule, Err: err})
			continue
		}
		if out != composed {
			res.Word = out
		}
		res.Steps = append(res.Steps, Step{Index: i, Rule: rule, Output: res.Word})
	}
	return res
}

var defaultEngine = New()

// Apply runs rules over word using a shared Engine.
func Apply(word string, rules []string) string {
	return defaultEngine.Apply(word, rules)
}

// ApplyWithDiagnostics is Engine.ApplyWithDiagnostics on a shared Engine.
func ApplyWithDiagnostics(word string, rules []string) Result {
	return defaultEngine.ApplyWithDiagnostics(word, rules)
}
