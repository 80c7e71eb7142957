package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrUnknownCode      = errors.New("unknown event code")
	ErrDuplicateCode    = errors.New("duplicate event code")
	ErrBadFreeThrowText = errors.New("free throw description has no N of M")
)
