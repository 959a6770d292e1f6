package entities

type User struct {
	ID           uint64 `json:"uid"`
	Username     string `json:"user_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Profile is the public view of a user, safe to serialize.
type Profile struct {
	UID      uint64 `json:"uid"`
	Username string `json:"user_name"`
	Email    string `json:"email"`
}
