// Package server exposes the conlang services as a JSON HTTP API.
//
// Routing uses chi; authentication is a gorilla/sessions cookie holding the
// user id. Every request gets a UUID request id and a zap access log line.
// Domain errors map onto status codes: invalid input 400, bad credentials
// or missing session 401, ownership violations 403 and missing records 404.
// Error bodies are {"error": "..."}.
package server
