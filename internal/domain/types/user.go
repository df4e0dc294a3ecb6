package types

// User is a registered account. PasswordHash is a bcrypt digest and never
// leaves the server.
type User struct {
	ID           UserID `json:"id"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"passwordHash"`
	DisplayName  string `json:"displayName"`
}

// Public strips credentials from the user.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

// PublicUser is what the API returns for a session.
type PublicUser struct {
	ID          UserID `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// NewUser carries the registration form.
type NewUser struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}
