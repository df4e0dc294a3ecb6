package types

// Well-known lexicon categories. Any other non-empty string is accepted as a
// custom category.
const (
	CategoryNoun      = "noun"
	CategoryVerb      = "verb"
	CategoryAdjective = "adjective"
	CategoryAdverb    = "adverb"
)

// LexiconEntry is a single word in a shared lexicon.
type LexiconEntry struct {
	ID         RecordID `json:"id"`
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	Category   string   `json:"category"`
	Notes      string   `json:"notes"`
	Ownership
}

// LexiconInput is the writable subset of a LexiconEntry.
type LexiconInput struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Category   string `json:"category"`
	Notes      string `json:"notes"`
}
