package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrFriendNotFound  = &notFoundError{what: "friend"}
	ErrItemNotFound    = &notFoundError{what: "item"}
	ErrNameRequired    = errors.New("name is required")
	ErrFriendRequired  = errors.New("friend id is required")
	ErrDuplicateFriend = errors.New("friend already exists")
	ErrFriendHasItems  = errors.New("friend still has borrowed items")
)

// notFoundError lets ErrFriendNotFound and ErrItemNotFound also match ErrNotFound.
type notFoundError struct {
	what string
}

func (e *notFoundError) Error() string { return e.what + " not found" }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
