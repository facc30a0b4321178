package domain

import "time"

// Message is an anonymous note delivered to a user's inbox. Rows live in
// their own table keyed by the owning user, not embedded in the user record,
// so deletion can be a single ownership-scoped statement.
type Message struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

const (
	MessageMinLen = 10
	MessageMaxLen = 300
)
