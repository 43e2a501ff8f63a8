package domain

import "context"

// Resolver turns an application descriptor into a download link and version
type Resolver interface {
	// Resolve returns an empty Resolution when the link cannot be found.
	// Errors are reserved for transport failures and unknown strategies.
	Resolve(ctx context.Context, app Application) (*Resolution, error)
}

// Fetcher streams a resolved link to disk
type Fetcher interface {
	Download(ctx context.Context, req FetchRequest, progress ProgressFunc, cancel *CancelToken) *FetchOutcome
}

// ProgressFunc receives the cumulative percentage of a transfer
type ProgressFunc func(name string, percent int)

// PartialSuffix marks a file whose transfer has not completed
const PartialSuffix = ".part"

// FetchRequest describes one transfer
type FetchRequest struct {
	Name     string // reported to the progress callback
	URL      string
	DestPath string
}

// PartialPath is where the body is streamed until the transfer completes.
// Only a completed transfer is moved to DestPath.
func (r FetchRequest) PartialPath() string {
	return r.DestPath + PartialSuffix
}

// FetchStatus is the terminal state of a transfer
type FetchStatus string

const (
	FetchCompleted FetchStatus = "completed"
	FetchCancelled FetchStatus = "cancelled"
	FetchFailed    FetchStatus = "failed"
)

// FetchOutcome reports how a transfer ended
type FetchOutcome struct {
	Status  FetchStatus
	Path    string
	Session DownloadSession
	Err     error
}

// DownloadSession is the per-transfer byte accounting
type DownloadSession struct {
	BytesExpected int64
	BytesWritten  int64
}

// Percent returns floor(written/expected*100), capped at 100 for servers
// that send no or a wrong Content-Length.
func (s DownloadSession) Percent() int {
	expected := s.BytesExpected
	if expected <= 0 {
		expected = 1
	}
	return int(min(s.BytesWritten*100/expected, 100))
}
