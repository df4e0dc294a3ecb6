// Package soundchange parses and applies sound change rules.
//
// Rule notation
//
//	from > to
//	from > to / before_after
//
// from is a regular expression, to its replacement (Ø deletes). The optional
// environment names context that must appear immediately before and/or after
// the match; it is checked with zero-width lookbehind and lookahead, so it is
// never consumed. In an environment side the bare tokens V and C expand to the
// vowel class [aeiouāēīōū] and its complement. Any other text, including
// bracket lists such as [p,b,m], is passed to the matcher verbatim.
//
// # Application
//
// Rules run in order, each over the output of the previous one, replacing
// every non-overlapping match left to right. A rule that cannot be parsed or
// compiled, or whose match exceeds the time budget, is skipped: the working
// string is left as it was and a Diagnostic is recorded.
//
// # Implementation
//
// Matching uses github.com/dlclark/regexp2 because the standard library's
// RE2 engine has no lookaround. Every compiled rule carries a MatchTimeout.
// Words and rules are NFC-normalised before use so composed and decomposed
// diacritics behave the same. Engine caches compiled rules by their literal
// text and is safe for concurrent use.
package soundchange
