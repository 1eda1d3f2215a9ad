package mediafire

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/tanq16/mediafire-dl/internal/utils"
)

type responder func(req *http.Request) (*http.Response, error)

// fakeSite answers requests by exact URL and records every request made.
type fakeSite struct {
	routes   map[string]responder
	requests []*http.Request
}

func newFakeSite() *fakeSite {
	return &fakeSite{routes: make(map[string]responder)}
}

func (s *fakeSite) handle(url string, r responder) *fakeSite {
	s.routes[url] = r
	return s
}

func (s *fakeSite) RoundTrip(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	r, ok := s.routes[req.URL.String()]
	if !ok {
		return nil, fmt.Errorf("dial tcp: lookup %s: no such host", req.URL.Host)
	}
	return r(req)
}

func (s *fakeSite) requestedURLs() []string {
	urls := make([]string, 0, len(s.requests))
	for _, req := range s.requests {
		urls = append(urls, req.URL.String())
	}
	return urls
}

func fileResponse(disposition string, body []byte) responder {
	return func(req *http.Request) (*http.Response, error) {
		header := http.Header{}
		header.Set("Content-Type", "application/octet-stream")
		header.Set("Content-Disposition", disposition)
		header.Set("Content-Length", strconv.Itoa(len(body)))
		return &http.Response{
			StatusCode:    http.StatusOK,
			Header:        header,
			Body:          io.NopCloser(bytes.NewReader(body)),
			ContentLength: int64(len(body)),
			Request:       req,
		}, nil
	}
}

func pageResponse(html string) responder {
	return func(req *http.Request) (*http.Response, error) {
		header := http.Header{}
		header.Set("Content-Type", "text/html; charset=utf-8")
		return &http.Response{
			StatusCode:    http.StatusOK,
			Header:        header,
			Body:          io.NopCloser(bytes.NewReader([]byte(html))),
			ContentLength: int64(len(html)),
			Request:       req,
		}, nil
	}
}

func failingResponse(err error) responder {
	return func(*http.Request) (*http.Response, error) {
		return nil, err
	}
}

type recordingProgress struct {
	total int64
	added int64
	calls int
	done  bool
}

func (p *recordingProgress) Add(n int64) {
	p.added += n
	p.calls++
}

func (p *recordingProgress) Done() { p.done = true }

func newTestFetcher(t *testing.T, site *fakeSite, errOut io.Writer, progress *recordingProgress) *Fetcher {
	t.Helper()
	cfg := Config{
		HTTP:   utils.HTTPClientConfig{Transport: site},
		ErrOut: errOut,
	}
	if progress != nil {
		cfg.Progress = func(total int64, _ string) utils.ProgressSink {
			progress.total = total
			return progress
		}
	}
	return NewFetcher(cfg)
}

func payload(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}
