// Package phonology stores users' consonant and vowel inventories and
// generates candidate words from them.
package phonology
