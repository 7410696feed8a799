package domain

import "time"

// Item is a marketplace listing. SellerID is set at creation and never
// reassigned; it is the identity compared for mutation authorization.
type Item struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Body        string
	PriceCents  int64
	SellerID    string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether u created this item. Comparison is by user id;
// ids are immutable while usernames can change.
func (i Item) OwnedBy(u User) bool {
	return i.SellerID != "" && i.SellerID == u.ID
}
