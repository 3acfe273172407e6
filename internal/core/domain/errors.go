package domain

import "errors"

var (
	ErrVisitorIDRequired = errors.New("visitor id is required")
	ErrPollNotFound      = errors.New("poll not found")
	ErrInvalidPollID     = errors.New("invalid poll id")
	ErrPollNotActive     = errors.New("poll is no longer active")
	ErrInvalidOption     = errors.New("invalid option for this poll")
	ErrAlreadyVoted      = errors.New("visitor has already voted on this poll")
	ErrGlobalNotFound    = errors.New("global document not found")
	ErrInternal          = errors.New("internal server error")
)
