package types

// RuleSet is a named, ordered list of sound change rules.
type RuleSet struct {
	ID    RecordID `json:"id"`
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
	Ownership
}

// RuleSetInput is the writable subset of a RuleSet.
type RuleSetInput struct {
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

// SkippedRule describes a rule the engine could not apply.
type SkippedRule struct {
	Index int    `json:"index"`
	Rule  string `json:"rule"`
	Error string `json:"error"`
}

// RuleStep records the working string after one applied rule.
type RuleStep struct {
	Rule   string `json:"rule"`
	Output string `json:"output"`
}

// SoundChangeResult is the outcome of applying rule sets to one word.
type SoundChangeResult struct {
	Input   string        `json:"input"`
	Output  string        `json:"output"`
	Steps   []RuleStep    `json:"steps,omitempty"`
	Skipped []SkippedRule `json:"skipped,omitempty"`
}
