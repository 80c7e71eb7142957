package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrEmptyGameID = errors.New("game id must not be empty")
	ErrStorage     = errors.New("storage failure")
)
