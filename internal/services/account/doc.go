// Package account registers and authenticates users.
//
// It enforces the username and password policy, hashes passwords with
// bcrypt, and persists accounts via the domain.UserStore.
package account
