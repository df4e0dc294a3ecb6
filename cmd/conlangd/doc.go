// Command conlangd serves the conlang JSON API.
//
// Configuration comes from conlang.yaml, CONLANG_* environment variables and
// flags, in increasing order of precedence. See internal/app for the keys.
package main
