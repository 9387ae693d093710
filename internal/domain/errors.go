package domain

import "errors"

var (
	ErrNoBaseURL     = errors.New("api base url is not configured")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("rate limited")
	ErrEmptyText     = errors.New("text must not be empty")
	ErrNoActiveEdit  = errors.New("no entry is being edited")
	ErrEntryNotFound = errors.New("entry not found")
)
