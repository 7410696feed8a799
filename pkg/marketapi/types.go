// Package marketapi defines the JSON request and response schemas of the
// marketplace API, shared by the server handlers and any Go client. All
// bodies use a single-key envelope naming the entity they carry.
package marketapi

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ============================================================================
// Users
// ============================================================================

// User is the authenticated user payload, returned with a fresh token from
// register, login and user endpoints.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image,omitempty"`
	Token    string `json:"token"`
}

type UserResponse struct {
	User User `json:"user"`
}

type RegisterRequest struct {
	User NewUser `json:"user"`
}

type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	u := r.User
	return validation.ValidateStruct(&u,
		validation.Field(&u.Username, validation.Required, validation.Length(1, 64), is.Alphanumeric),
		validation.Field(&u.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&u.Password, validation.Required, validation.Length(8, 100)),
	)
}

type LoginRequest struct {
	User LoginUser `json:"user"`
}

type LoginUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	u := r.User
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.Password, validation.Required),
	)
}

// UpdateUserRequest carries a partial user update; nil fields are left
// unchanged.
type UpdateUserRequest struct {
	User UserChanges `json:"user"`
}

type UserChanges struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

func (r UpdateUserRequest) Validate() error {
	u := r.User
	return validation.ValidateStruct(&u,
		validation.Field(&u.Username, validation.NilOrNotEmpty, validation.Length(1, 64), is.Alphanumeric),
		validation.Field(&u.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&u.Password, validation.NilOrNotEmpty, validation.Length(8, 100)),
		validation.Field(&u.Image, is.URL),
	)
}

// ============================================================================
// Profiles
// ============================================================================

// Profile is the public view of a user. Following reflects the viewer when
// the request is authenticated, false otherwise.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image,omitempty"`
	Following bool   `json:"following"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

// ============================================================================
// Items
// ============================================================================

// Item is a marketplace listing with viewer-dependent favorite state.
type Item struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	PriceCents     int64     `json:"price_cents"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favorites_count"`
	Seller         Profile   `json:"seller"`
}

type ItemResponse struct {
	Item Item `json:"item"`
}

type ItemsResponse struct {
	Items      []Item `json:"items"`
	ItemsCount int    `json:"items_count"`
}

type CreateItemRequest struct {
	Item NewItem `json:"item"`
}

type NewItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	PriceCents  int64    `json:"price_cents"`
	Tags        []string `json:"tags"`
}

func (r CreateItemRequest) Validate() error {
	i := r.Item
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&i.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&i.Body, validation.Required),
		validation.Field(&i.PriceCents, validation.Min(0)),
		validation.Field(&i.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
}

// UpdateItemRequest carries a partial item update; nil fields are left
// unchanged.
type UpdateItemRequest struct {
	Item ItemChanges `json:"item"`
}

type ItemChanges struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
	PriceCents  *int64  `json:"price_cents"`
}

func (r UpdateItemRequest) Validate() error {
	i := r.Item
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&i.Description, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&i.Body, validation.NilOrNotEmpty),
		validation.Field(&i.PriceCents, validation.Min(0)),
	)
}

// ============================================================================
// Comments
// ============================================================================

type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    Profile   `json:"author"`
}

type CommentResponse struct {
	Comment Comment `json:"comment"`
}

type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type AddCommentRequest struct {
	Comment NewComment `json:"comment"`
}

type NewComment struct {
	Body string `json:"body"`
}

func (r AddCommentRequest) Validate() error {
	c := r.Comment
	return validation.ValidateStruct(&c,
		validation.Field(&c.Body, validation.Required, validation.Length(1, 5000)),
	)
}

// ============================================================================
// Tags
// ============================================================================

type TagsResponse struct {
	Tags []string `json:"tags"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
