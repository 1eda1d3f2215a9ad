package utils

import (
	"net/http"
	"net/url"
	"time"
)

// HTTPClientConfig is built once per invocation and passed by value to
// every component that talks to the network.
type HTTPClientConfig struct {
	Timeout       time.Duration
	KATimeout     time.Duration
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string
	UserAgent     string
	Headers       map[string]string
	// Transport replaces the default transport entirely (proxy settings are
	// then ignored). Used to plug in fake sites.
	Transport http.RoundTripper
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type MediafireHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewMediafireHTTPClient(cfg HTTPClientConfig) *MediafireHTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Minute
	}
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 90 * time.Second
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers

	transport := cfg.Transport
	if transport == nil {
		t := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			IdleConnTimeout:     cfg.KATimeout,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			DisableCompression:  true,
			ForceAttemptHTTP2:   true,
		}
		if cfg.ProxyURL != "" {
			proxyURL, err := url.Parse(cfg.ProxyURL)
			if err == nil {
				if cfg.ProxyUsername != "" {
					if cfg.ProxyPassword != "" {
						proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
					} else {
						proxyURL.User = url.User(cfg.ProxyUsername)
					}
				}
				t.Proxy = http.ProxyURL(proxyURL)
			}
		}
		transport = t
	}
	return &MediafireHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

func (c *MediafireHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", BrowserUserAgent)
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	return c.client.Do(req)
}
