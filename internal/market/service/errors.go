// Package service implements the marketplace business logic on top of the
// store interfaces. Services are plain structs; all state lives in the
// store.
package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures do not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrUsernameTaken and ErrEmailTaken distinguish registration
	// conflicts for the API error envelope.
	ErrUsernameTaken = errors.New("service: username already taken")
	ErrEmailTaken    = errors.New("service: email already registered")

	// ErrForbidden means the actor is authenticated but does not own the
	// resource being mutated.
	ErrForbidden = errors.New("service: forbidden")

	// ErrSelfFollow rejects a user following their own profile.
	ErrSelfFollow = errors.New("service: cannot follow yourself")
)
