// Package service defines the domain types and the remote authority contract.
package service

// Task represents a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Session identifies the authenticated user.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Valid reports whether both fields are populated.
func (s Session) Valid() bool {
	return s.Username != "" && s.Token != ""
}
