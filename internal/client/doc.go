// Package client is a JSON HTTP client for the conlang API.
//
// A Client keeps the session cookie in its own cookie jar, so Login or
// Register must be called before the authenticated endpoints. Non-2xx
// responses are returned as *StatusError.
package client
