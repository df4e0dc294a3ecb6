// Package phonology groups the two pure algorithms behind the toolkit:
// word generation from a syllable template (wordgen) and ordered sound change
// application (soundchange). Neither subpackage performs I/O or keeps state
// beyond an optional compiled-rule cache.
package phonology
