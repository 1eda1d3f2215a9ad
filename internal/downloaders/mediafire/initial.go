package mediafire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/mediafire-dl/internal/output"
	"github.com/tanq16/mediafire-dl/internal/utils"
)

var downloadLinkRegex = regexp.MustCompile(`href="(https://download[^"]+)`)

type Config struct {
	HTTP    utils.HTTPClientConfig
	MaxHops int
	// MaxPageSize caps how much of a confirmation page is read while
	// looking for the download link.
	MaxPageSize int64
	// ErrOut receives diagnostics, the download banner and the progress line.
	ErrOut io.Writer
	// Progress builds the sink for a non-quiet transfer. total is -1 when
	// the response has no Content-Length.
	Progress func(total int64, label string) utils.ProgressSink
}

// Fetcher resolves share links to the file response and streams it out.
// It handles one link at a time.
type Fetcher struct {
	client      utils.HTTPDoer
	maxHops     int
	maxPageSize int64
	errOut      io.Writer
	progress    func(total int64, label string) utils.ProgressSink
}

// Resolved is the file response reached after following confirmation pages.
// URL is the last target requested and Hops the number of requests made.
type Resolved struct {
	URL      string
	Response *http.Response
	Hops     int
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = utils.BrowserUserAgent
	}
	if cfg.MaxHops <= 0 {
		cfg.MaxHops = utils.DefaultMaxHops
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = utils.MaxPageSize
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}
	if cfg.Progress == nil {
		errOut := cfg.ErrOut
		cfg.Progress = func(total int64, label string) utils.ProgressSink {
			return output.NewProgress(errOut, total, label, utils.ProgressRefresh)
		}
	}
	return &Fetcher{
		client:      utils.NewMediafireHTTPClient(cfg.HTTP),
		maxHops:     cfg.MaxHops,
		maxPageSize: cfg.MaxPageSize,
		errOut:      cfg.ErrOut,
		progress:    cfg.Progress,
	}
}

// Resolve requests sourceURL and keeps following the download link embedded
// in confirmation pages until a response declares Content-Disposition.
// The caller owns the returned response body.
func (f *Fetcher) Resolve(ctx context.Context, sourceURL string) (*Resolved, error) {
	target := normalizeScheme(sourceURL)
	for hop := 1; hop <= f.maxHops; hop++ {
		log.Debug().Str("op", "mediafire/resolve").Int("hop", hop).Msgf("requesting %s", target)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, &TransportError{URL: target, Err: err}
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, &TransportError{URL: target, Err: err}
		}
		if len(resp.Header.Values("Content-Disposition")) > 0 {
			log.Debug().Str("op", "mediafire/resolve").Int("status", resp.StatusCode).Msgf("file response from %s", target)
			return &Resolved{URL: target, Response: resp, Hops: hop}, nil
		}

		page, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPageSize+1))
		resp.Body.Close()
		if err != nil {
			return nil, &TransportError{URL: target, Err: fmt.Errorf("error reading confirmation page: %w", err)}
		}
		if int64(len(page)) > f.maxPageSize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPageTooLarge, target, f.maxPageSize)
		}
		next := extractDownloadLink(string(page))
		if next == "" {
			log.Debug().Str("op", "mediafire/resolve").Int("status", resp.StatusCode).Msgf("no download link on %s", target)
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, sourceURL)
		}
		log.Debug().Str("op", "mediafire/resolve").Msgf("confirmation page links to %s", next)
		target = next
	}
	return nil, fmt.Errorf("%w: gave up on %s after %d requests", ErrTooManyHops, sourceURL, f.maxHops)
}

// extractDownloadLink returns the first secure download link in the page,
// matching line by line.
func extractDownloadLink(contents string) string {
	for _, line := range strings.Split(contents, "\n") {
		if m := downloadLinkRegex.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func normalizeScheme(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") {
		return "https://" + strings.TrimPrefix(rawURL, "http://")
	}
	return rawURL
}
