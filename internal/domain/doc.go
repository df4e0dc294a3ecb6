// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (records and API payloads) and contracts
// (store and service interfaces) only.
package domain
