package types

import "strconv"

// UserID identifies a registered account.
type UserID int64

// String returns the decimal form of the id.
func (id UserID) String() string { return strconv.FormatInt(int64(id), 10) }

// RecordID identifies a lexicon entry, phonology config or rule set.
type RecordID int64

// String returns the decimal form of the id.
func (id RecordID) String() string { return strconv.FormatInt(int64(id), 10) }

// Ownership is embedded in every shareable record.
type Ownership struct {
	CreatedBy  UserID   `json:"createdBy"`
	SharedWith []UserID `json:"sharedWith"`
}

// VisibleTo reports whether user owns the record or has it shared with them.
func (o Ownership) VisibleTo(user UserID) bool {
	return o.CreatedBy == user || o.IsSharedWith(user)
}

// IsSharedWith reports whether user is on the share list.
func (o Ownership) IsSharedWith(user UserID) bool {
	for _, u := range o.SharedWith {
		if u == user {
			return true
		}
	}
	return false
}

// Share adds user to the share list. Sharing twice is a no-op.
func (o *Ownership) Share(user UserID) {
	if !o.IsSharedWith(user) {
		o.SharedWith = append(o.SharedWith, user)
	}
}

// Unshare removes user from the share list.
func (o *Ownership) Unshare(user UserID) {
	out := o.SharedWith[:0]
	for _, u := range o.SharedWith {
		if u != user {
			out = append(out, u)
		}
	}
	o.SharedWith = out
}
