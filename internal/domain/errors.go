package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStrategy is returned for a catalog entry with an undefined strategy tag.
	// It is a programming error and stops the whole batch.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrTransport wraps connection failures, timeouts and non-2xx responses
	ErrTransport = errors.New("transport failure")

	// ErrLinkNotFound is reported for an application whose link could not be resolved
	ErrLinkNotFound = errors.New("download link not found")

	// ErrEmptyURL is returned when a download is requested before a link was resolved
	ErrEmptyURL = errors.New("download URL is empty")

	// ErrAppNotFound is returned when a selected name is not in the catalog
	ErrAppNotFound = errors.New("application not found")

	// ErrDownloadNotFound is returned when a download ID is unknown
	ErrDownloadNotFound = errors.New("download not found")

	// ErrDownloadActive is returned when removing a record that is still resolving or transferring
	ErrDownloadActive = errors.New("download is still active")

	// ErrBatchRunning is returned when a batch is started while another is active
	ErrBatchRunning = errors.New("another batch is already running")

	// ErrNoBatch is returned when no batch has been started yet
	ErrNoBatch = errors.New("no batch has been started")

	// ErrEmptySelection is returned when a batch is started without applications
	ErrEmptySelection = errors.New("no applications selected")
)

// AppError carries the identity of the application whose resolve or download failed
type AppError struct {
	App string
	Err error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.App, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with the application name
func NewAppError(app string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{App: app, Err: err}
}
