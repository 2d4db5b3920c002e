package api

import "errors"

var (
	// ErrNotLoggedIn is returned by operations that need a signed-in user
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNotOwner is returned when mutating a document the caller did not create
	ErrNotOwner = errors.New("you can only change your own content")

	// ErrSelfFollow is returned when following yourself
	ErrSelfFollow = errors.New("you cannot follow yourself")

	// ErrUsernameTaken is returned when a username belongs to another user
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrReelTooLong is returned when the uploaded video exceeds the reel limit
	ErrReelTooLong = errors.New("reel is longer than 90 seconds")

	// ErrSelfChat is returned when opening a chat with yourself
	ErrSelfChat = errors.New("you cannot start a chat with yourself")

	// ErrNotParticipant is returned when reading a chat room the caller is not in
	ErrNotParticipant = errors.New("you are not part of this conversation")
)
