package domain

type User struct {
	ID       uint64
	Username string
	Password string
}

// Session is the logged-in state kept in the local cache.
type Session struct {
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}
