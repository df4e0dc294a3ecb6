package types

// PhonologyConfig is a saved consonant/vowel inventory with syllable patterns.
type PhonologyConfig struct {
	ID               RecordID `json:"id"`
	Consonants       []string `json:"consonants"`
	Vowels           []string `json:"vowels"`
	SyllablePatterns []string `json:"syllablePatterns"`
	Ownership
}

// PhonologyInput is the writable subset of a PhonologyConfig.
type PhonologyInput struct {
	Consonants       []string `json:"consonants"`
	Vowels           []string `json:"vowels"`
	SyllablePatterns []string `json:"syllablePatterns"`
}
