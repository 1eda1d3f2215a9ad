package utils

import (
	"context"
	"io"
)

// Destination is where a download ends up. The only implementations are
// PathDestination and StreamDestination.
type Destination interface {
	String() string
	isDestination()
}

// PathDestination is a filesystem path. Writes are staged in a temporary
// sibling file and renamed into place on success.
type PathDestination struct {
	Path string
}

func (d PathDestination) String() string { return d.Path }
func (PathDestination) isDestination()   {}

// StreamDestination is a caller-owned writer (stdout, a buffer, an upload
// pipe). Chunks are written to it directly and it is never closed here.
type StreamDestination struct {
	Writer io.Writer
	Name   string
}

func (d StreamDestination) String() string {
	if d.Name == "" {
		return "<stream>"
	}
	return d.Name
}
func (StreamDestination) isDestination() {}

type DownloadRequest struct {
	URL    string
	Output Destination // nil derives a file name from the response
	Quiet  bool
}

type Job struct {
	ID      string
	Request DownloadRequest
}

type Downloader interface {
	Download(ctx context.Context, req DownloadRequest) (Destination, error)
}

type ProgressSink interface {
	Add(n int64)
	Done()
}
