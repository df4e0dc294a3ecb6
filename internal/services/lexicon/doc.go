// Package lexicon manages dictionary entries with owner-only mutation and
// read access for users the entry is shared with.
package lexicon
