package service

import "errors"

// ErrAlreadyRunning is returned when Run is called while a batch is in progress.
var ErrAlreadyRunning = errors.New("batch already running")
