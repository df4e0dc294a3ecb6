// Package store provides the in-memory persistence backend for conlang.
//
// Memory keeps users, lexicon entries, phonology configs and rule sets in
// maps behind a single mutex. When opened with a directory it also writes a
// JSON snapshot after every mutation and reloads it on Open, so a server can
// survive restarts without a database. Records are cloned on the way in and
// out; callers never share slices with the store.
//
// The SQL backend lives in the sqlstore subpackage.
package store
