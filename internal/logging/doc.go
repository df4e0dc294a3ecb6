// Package logging builds the zap logger shared by the conlang binaries.
package logging
