package conversation

import "errors"

var (
	// ErrBusy is returned when a message is sent while another is still
	// being processed.
	ErrBusy = errors.New("conversation: a message is already being processed")
	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = errors.New("conversation: message is empty")
)
