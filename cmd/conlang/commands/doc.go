// Package commands defines the conlang CLI.
//
// Commands
//
//   - generate     Generate words from an inventory, locally or from the server
//   - evolve       Apply sound change rules to words
//   - categories   Print the phonetic category table
//   - register     Create an account on the server
//   - login        Check credentials against the server
//   - rules        Manage stored rule sets (add, list, rm, share, apply)
//   - lexicon      Manage lexicon entries (add, list, rm, share)
//   - phonology    Save or show the stored phonology (set, show, share)
//
// # Implementation
//
// generate, evolve and categories run entirely offline. The remaining
// commands build an API client from --server and log in with --username
// and --password (or CONLANG_PASSWORD) before each call.
package commands
