package model

// User is a registered account. Usernames are the unique key; two User
// values are the same user iff their usernames are equal.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized to clients
	AvatarID     int    `json:"avatar_id"`
}

// IsEmpty reports whether the user carries no usable identity.
func (u *User) IsEmpty() bool {
	return u == nil || u.Username == ""
}

// Equal compares users by username.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.Username == other.Username
}
