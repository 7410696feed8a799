package domain

import "time"

// Comment is attached to an item. AuthorID is set at creation and never
// reassigned.
type Comment struct {
	ID        string
	ItemID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether u wrote this comment.
func (c Comment) OwnedBy(u User) bool {
	return c.AuthorID != "" && c.AuthorID == u.ID
}
