package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// StreamFetcher implements domain.Fetcher by copying the response body to
// disk in fixed-size chunks
type StreamFetcher struct {
	client    *HTTPClient
	chunkSize int
	logger    *zap.Logger
}

// NewStreamFetcher creates a new stream fetcher
func NewStreamFetcher(client *HTTPClient, chunkSize int, logger *zap.Logger) *StreamFetcher {
	if chunkSize <= 0 {
		chunkSize = domain.DefaultChunkSize
	}
	return &StreamFetcher{
		client:    client,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// Download streams req.URL into req.PartialPath() and moves the file to
// req.DestPath once the whole body arrived. Progress is reported after every
// chunk and the cancel token is checked right after, so a cancelled transfer
// always ends on a chunk boundary. Partial files are left on disk.
func (f *StreamFetcher) Download(ctx context.Context, req domain.FetchRequest, progress domain.ProgressFunc, cancel *domain.CancelToken) *domain.FetchOutcome {
	outcome := &domain.FetchOutcome{Path: req.PartialPath()}

	if req.URL == "" {
		return f.fail(outcome, req, domain.ErrEmptyURL)
	}
	if progress == nil {
		progress = func(string, int) {}
	}

	if err := os.MkdirAll(filepath.Dir(req.DestPath), 0755); err != nil {
		return f.fail(outcome, req, fmt.Errorf("failed to create destination directory: %w", err))
	}

	resp, err := f.client.Get(ctx, req.URL)
	if err != nil {
		return f.fail(outcome, req, err)
	}
	defer resp.Body.Close()

	outcome.Session.BytesExpected = resp.ContentLength
	if outcome.Session.BytesExpected <= 0 {
		outcome.Session.BytesExpected = 1
	}

	file, err := os.Create(outcome.Path)
	if err != nil {
		return f.fail(outcome, req, fmt.Errorf("failed to create file: %w", err))
	}
	defer file.Close()

	f.logger.Debug("Transfer started",
		zap.String("app", req.Name),
		zap.String("url", req.URL),
		zap.String("path", outcome.Path),
		zap.Int64("bytes_expected", resp.ContentLength))

	buf := make([]byte, f.chunkSize)
	reported := 0
	for {
		n, readErr := io.ReadFull(resp.Body, buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return f.fail(outcome, req, fmt.Errorf("failed to write file: %w", err))
			}
			outcome.Session.BytesWritten += int64(n)

			if percent := outcome.Session.Percent(); percent > reported {
				reported = percent
			}
			progress(req.Name, reported)

			if cancel.Cancelled() {
				return f.cancelled(outcome, req)
			}
		}

		if readErr == io.EOF || errors.Is(readErr, io.ErrUnexpectedEOF) {
			// net/http also reports a connection closed before Content-Length
			// bytes as ErrUnexpectedEOF
			if resp.ContentLength >= 0 && outcome.Session.BytesWritten != resp.ContentLength {
				return f.fail(outcome, req, fmt.Errorf("%w: body truncated after %d of %d bytes",
					domain.ErrTransport, outcome.Session.BytesWritten, resp.ContentLength))
			}
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return f.cancelled(outcome, req)
			}
			return f.fail(outcome, req, fmt.Errorf("%w: reading body: %v", domain.ErrTransport, readErr))
		}
	}

	if err := file.Close(); err != nil {
		return f.fail(outcome, req, fmt.Errorf("failed to close file: %w", err))
	}
	if err := os.Rename(outcome.Path, req.DestPath); err != nil {
		return f.fail(outcome, req, fmt.Errorf("failed to move completed file: %w", err))
	}

	outcome.Path = req.DestPath
	outcome.Status = domain.FetchCompleted
	f.logger.Debug("Transfer completed",
		zap.String("app", req.Name),
		zap.String("path", outcome.Path),
		zap.Int64("bytes_written", outcome.Session.BytesWritten))
	return outcome
}

func (f *StreamFetcher) cancelled(outcome *domain.FetchOutcome, req domain.FetchRequest) *domain.FetchOutcome {
	outcome.Status = domain.FetchCancelled
	f.logger.Info("Transfer cancelled, partial file kept",
		zap.String("app", req.Name),
		zap.String("path", outcome.Path),
		zap.Int64("bytes_written", outcome.Session.BytesWritten))
	return outcome
}

func (f *StreamFetcher) fail(outcome *domain.FetchOutcome, req domain.FetchRequest, err error) *domain.FetchOutcome {
	outcome.Status = domain.FetchFailed
	outcome.Err = domain.NewAppError(req.Name, err)
	f.logger.Warn("Transfer failed",
		zap.String("app", req.Name),
		zap.String("url", req.URL),
		zap.Error(err))
	return outcome
}
