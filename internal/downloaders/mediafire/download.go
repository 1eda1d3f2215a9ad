package mediafire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/mediafire-dl/internal/output"
	"github.com/tanq16/mediafire-dl/internal/utils"
)

type noopProgress struct{}

func (noopProgress) Add(int64) {}
func (noopProgress) Done()     {}

type stagingFile interface {
	io.Writer
	Name() string
	Chmod(mode os.FileMode) error
	Sync() error
	Close() error
}

var createStaging = func(dir, pattern string) (stagingFile, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Download resolves req.URL and streams the file to its destination. Every
// failure is reported on the fetcher's error writer before being returned.
func (f *Fetcher) Download(ctx context.Context, req utils.DownloadRequest) (utils.Destination, error) {
	res, err := f.Resolve(ctx, req.URL)
	if err != nil {
		f.report(req.URL, err)
		return nil, err
	}
	dest := MaterializeOutput(res, req.Output)

	var progress utils.ProgressSink = noopProgress{}
	if !req.Quiet {
		fmt.Fprintln(f.errOut, output.FInfo("Downloading..."))
		fmt.Fprintln(f.errOut, output.FStream("From: "+res.URL))
		fmt.Fprintln(f.errOut, output.FStream("To: "+describe(dest)))
		progress = f.progress(res.Response.ContentLength, dest.String())
	}
	written, err := f.Stream(res, dest, progress)
	progress.Done()
	if err != nil {
		f.report(req.URL, err)
		return nil, err
	}
	log.Debug().Str("op", "mediafire/download").Int64("bytes", written).Int("hops", res.Hops).Msgf("saved %s", dest)
	return dest, nil
}

// Stream copies the resolved body to dest and closes the body. Path
// destinations are staged in a temporary sibling and only renamed onto the
// final path once the whole body has been written.
func (f *Fetcher) Stream(res *Resolved, dest utils.Destination, progress utils.ProgressSink) (int64, error) {
	defer res.Response.Body.Close()
	switch d := dest.(type) {
	case utils.PathDestination:
		return streamToFile(res.Response.Body, d.Path, res.URL, progress)
	case utils.StreamDestination:
		return copyChunks(d.Writer, res.Response.Body, res.URL, d.String(), progress)
	default:
		return 0, fmt.Errorf("unsupported destination %T", dest)
	}
}

func streamToFile(body io.Reader, outputPath, sourceURL string, progress utils.ProgressSink) (int64, error) {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, &LocalIOError{Path: outputPath, Err: err}
	}
	tempFile, err := createStaging(outputDir, utils.TempPattern(filepath.Base(outputPath)))
	if err != nil {
		return 0, &LocalIOError{Path: outputPath, Err: err}
	}
	tempPath := tempFile.Name()
	log.Debug().Str("op", "mediafire/stream").Msgf("staging %s in %s", outputPath, tempPath)

	written, err := copyChunks(tempFile, body, sourceURL, outputPath, progress)
	if err == nil {
		err = finalizeTemp(tempFile, outputPath)
	}
	if closeErr := tempFile.Close(); err == nil && closeErr != nil {
		err = &LocalIOError{Path: outputPath, Err: closeErr}
	}
	if err != nil {
		os.Remove(tempPath)
		return written, err
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return written, &LocalIOError{Path: outputPath, Err: fmt.Errorf("error renaming (finalizing) output file: %w", err)}
	}
	return written, nil
}

func finalizeTemp(tempFile stagingFile, outputPath string) error {
	if err := tempFile.Chmod(0644); err != nil {
		return &LocalIOError{Path: outputPath, Err: err}
	}
	if err := tempFile.Sync(); err != nil {
		return &LocalIOError{Path: outputPath, Err: err}
	}
	return nil
}

func copyChunks(dst io.Writer, body io.Reader, sourceURL, destName string, progress utils.ProgressSink) (int64, error) {
	buffer := make([]byte, utils.ChunkSize)
	var written int64
	for {
		bytesRead, readErr := body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := dst.Write(buffer[:bytesRead]); writeErr != nil {
				return written, &LocalIOError{Path: destName, Err: writeErr}
			}
			written += int64(bytesRead)
			progress.Add(int64(bytesRead))
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil
			}
			return written, &TransportError{URL: sourceURL, Err: fmt.Errorf("error reading response body: %w", readErr)}
		}
	}
}

func (f *Fetcher) report(sourceURL string, err error) {
	log.Debug().Str("op", "mediafire/download").Err(err).Msgf("failed %s", sourceURL)
	switch {
	case errors.Is(err, ErrPermissionDenied):
		fmt.Fprintln(f.errOut, output.FError("Permission denied: "+sourceURL))
		fmt.Fprintln(f.errOut, output.FWarning("Maybe you need to change permission to 'Anyone with the link'?"))
	case errors.Is(err, ErrTooManyHops):
		fmt.Fprintln(f.errOut, output.FError(fmt.Sprintf("Too many redirects (limit %d): %s", f.maxHops, sourceURL)))
	case errors.Is(err, ErrPageTooLarge):
		fmt.Fprintln(f.errOut, output.FError(fmt.Sprintf("Confirmation page larger than %s: %s", output.FormatBytes(uint64(f.maxPageSize)), sourceURL)))
	default:
		fmt.Fprintln(f.errOut, output.FError(err.Error()))
		return
	}
	if utils.GlobalDebugFlag {
		fmt.Fprintln(f.errOut, output.FDebug("cause: "+err.Error()))
	}
}

func describe(dest utils.Destination) string {
	if d, ok := dest.(utils.PathDestination); ok {
		if abs, err := filepath.Abs(d.Path); err == nil {
			return abs
		}
	}
	return dest.String()
}
