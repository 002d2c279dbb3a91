package wizard

import "errors"

var (
	// ErrBusy is returned when a finalize is already running for the session.
	ErrBusy = errors.New("wizard: finalize already in progress")
	// ErrNoSession is returned when an operation needs an active creation session.
	ErrNoSession = errors.New("wizard: no active creation session")
	// ErrFinalizeFailed wraps persistence failures during finalize.
	ErrFinalizeFailed = errors.New("wizard: campaign could not be created")
	// ErrUnknownKind is returned for an unsupported selection kind.
	ErrUnknownKind = errors.New("wizard: unknown selection kind")
	// ErrUnknownItem is returned when selecting an item the insights do not offer.
	ErrUnknownItem = errors.New("wizard: unknown selection item")
)
