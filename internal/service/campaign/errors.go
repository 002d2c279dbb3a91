package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound      = errors.New("campaign not found")
	ErrTitleRequired = errors.New("campaign title is required")
	ErrInvalidStatus = errors.New("invalid campaign status")
)
