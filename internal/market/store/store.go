package store

import (
	"context"
	"errors"

	"github.com/northmarket/bazaar/internal/market/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Items() Items
	Comments() Comments
	Tags() Tags
	Favorites() Favorites
	Follows() Follows

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id. The authorization gate resolves
	// token subjects through this.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. Exact, case-sensitive lookup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is used for profile lookups. Exact, case-sensitive.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on a username or email collision.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates username, email, bio and image and bumps
	// updated_at. Returns ErrAlreadyExists on a uniqueness collision.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePassword sets a new salt and hash pair and bumps updated_at.
	UpdatePassword(ctx context.Context, userID, salt, hash string) error

	// DeleteUser removes the account. Owned items and comments cascade.
	DeleteUser(ctx context.Context, userID string) error
}

// ItemFilter narrows item listings. Zero values mean "don't filter".
type ItemFilter struct {
	Tag         string // only items carrying this tag
	Seller      string // only items sold by this username
	FavoritedBy string // only items favorited by this username
	Limit       int
	Offset      int
}

type Items interface {
	// GetItemBySlug returns an item with its tags populated.
	GetItemBySlug(ctx context.Context, slug string) (domain.Item, error)

	// CreateItem inserts a new item row. Tags are managed separately via
	// the Tags repository. Returns ErrAlreadyExists on a slug collision.
	CreateItem(ctx context.Context, item domain.Item) error

	// UpdateItem mutates slug, title, description, body and price and
	// bumps updated_at. Returns ErrAlreadyExists on a slug collision.
	UpdateItem(ctx context.Context, item domain.Item) error

	// DeleteItem removes the item. Comments, tags and favorites cascade.
	DeleteItem(ctx context.Context, itemID string) error

	// ListItems returns items matching the filter, newest first, with
	// tags populated.
	ListItems(ctx context.Context, f ItemFilter) ([]domain.Item, error)

	// CountItems returns the total match count for the filter, ignoring
	// limit and offset.
	CountItems(ctx context.Context, f ItemFilter) (int, error)

	// ListFeed returns items from sellers the user follows, newest first.
	ListFeed(ctx context.Context, userID string, limit, offset int) ([]domain.Item, error)

	// CountFeed returns the total feed size for the user.
	CountFeed(ctx context.Context, userID string) (int, error)
}

type Comments interface {
	// CreateComment inserts a new comment (id is ULID).
	CreateComment(ctx context.Context, c domain.Comment) error

	// GetCommentByID returns a comment by id.
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// ListItemComments returns all comments on an item, newest first.
	ListItemComments(ctx context.Context, itemID string) ([]domain.Comment, error)

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, id string) error
}

type Tags interface {
	// ReplaceItemTags replaces the tag set of an item.
	ReplaceItemTags(ctx context.Context, itemID string, tags []string) error

	// ListTags returns every distinct tag in use, alphabetically.
	ListTags(ctx context.Context) ([]string, error)
}

type Favorites interface {
	// AddFavorite records that the user favorited the item. Returns
	// ErrAlreadyExists when already favorited.
	AddFavorite(ctx context.Context, userID, itemID string) error

	// RemoveFavorite deletes the favorite. Returns ErrNotFound when the
	// favorite does not exist.
	RemoveFavorite(ctx context.Context, userID, itemID string) error

	// IsFavorited reports whether the user favorited the item.
	IsFavorited(ctx context.Context, userID, itemID string) (bool, error)

	// CountFavorites returns the number of users who favorited the item.
	CountFavorites(ctx context.Context, itemID string) (int, error)
}

type Follows interface {
	// AddFollow records follower → followee. Returns ErrAlreadyExists when
	// already following.
	AddFollow(ctx context.Context, followerID, followeeID string) error

	// RemoveFollow deletes the relationship. Returns ErrNotFound when it
	// does not exist.
	RemoveFollow(ctx context.Context, followerID, followeeID string) error

	// IsFollowing reports whether follower follows followee.
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}
