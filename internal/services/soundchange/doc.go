// Package soundchange stores named rule sets and runs words through them with
// the sound change engine.
//
// Rules are stored as written; malformed rules are not rejected at save time.
// At apply time they are skipped, logged at warn level and reported back to
// the caller alongside the transformed word.
package soundchange
