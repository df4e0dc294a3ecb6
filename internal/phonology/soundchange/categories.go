package soundchange

import "sort"

// Category is a named set of segments, e.g. "stops" or "front".
type Category struct {
	Kind     string
	Name     string
	Segments []string
}

// Categories lists the built-in phonetic classes. Only VowelMacro and
// ConsonantMacro are understood by rule environments; these are reference
// data for authors writing bracket classes by hand.
var Categories = []Category{
	{Kind: "vowel", Name: "high", Segments: []string{"i", "u", "ī", "ū"}},
	{Kind: "vowel", Name: "mid", Segments: []string{"e", "o", "ē", "ō"}},
	{Kind: "vowel", Name: "low", Segments: []string{"a", "ā"}},
	{Kind: "vowel", Name: "front", Segments: []string{"i", "ī", "e", "ē"}},
	{Kind: "vowel", Name: "back", Segments: []string{"u", "ū", "o", "ō"}},
	{Kind: "vowel", Name: "long", Segments: []string{"ā", "ē", "ī", "ō", "ū"}},
	{Kind: "vowel", Name: "short", Segments: []string{"a", "e", "i", "o", "u"}},
	{Kind: "consonant", Name: "stops", Segments: []string{"p", "t", "k", "b", "d", "g"}},
	{Kind: "consonant", Name: "fricatives", Segments: []string{"f", "s", "h", "v", "z"}},
	{Kind: "consonant", Name: "nasals", Segments: []string{"m", "n", "ŋ"}},
	{Kind: "consonant", Name: "liquids", Segments: []string{"l", "r"}},
	{Kind: "consonant", Name: "glides", Segments: []string{"j", "w"}},
	{Kind: "consonant", Name: "voiced", Segments: []string{"b", "d", "g", "v", "z"}},
	{Kind: "consonant", Name: "voiceless", Segments: []string{"p", "t", "k", "f", "s", "h"}},
}

// LookupCategory finds a category by name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Class renders the category as a bracket class usable in a rule, e.g. [ptkbdg].
func (c Category) Class() string {
	segs := append([]string(nil), c.Segments...)
	sort.Strings(segs)
	out := "["
	for _, s := range segs {
		out += s
	}
	return out + "]"
}
