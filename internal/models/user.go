package models

// User is the mocked identity a session carries. Only ID is used to scope
// records.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
