package service

import "errors"

// Error kinds reported to the user. Transport causes are wrapped behind
// them, so errors.Is matches the kind and errors.As still reaches the cause.
var (
	ErrSignupFailed     = errors.New("signup failed")
	ErrLoginFailed      = errors.New("login failed")
	ErrTaskFetchFailed  = errors.New("failed to load tasks")
	ErrTaskCreateFailed = errors.New("failed to create task")
	ErrValidation       = errors.New("title required")
)

// ErrNotLoggedIn is returned when a task operation runs without a session token.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrStale is returned when a response was superseded by a newer
// login, logout or refresh and its result was dropped.
var ErrStale = errors.New("superseded by a newer request")
