package cmd

import (
	"context"
	"errors"
	u "net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/mediafire-dl/internal/downloaders/mediafire"
	"github.com/tanq16/mediafire-dl/internal/output"
	"github.com/tanq16/mediafire-dl/internal/s3sink"
	"github.com/tanq16/mediafire-dl/internal/scheduler"
	"github.com/tanq16/mediafire-dl/internal/utils"
)

var (
	outputPath    string
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	maxHops       int
	s3Profile     string
	debug         bool
)

var MediafireDLVersion = "dev"

var errDownloadFailed = errors.New("download failed")

var rootCmd = &cobra.Command{
	Use:     "mediafire-dl URL [URL...] [--output OUTPUT]",
	Short:   "Download files from MediaFire share links",
	Version: MediafireDLVersion,
	Args:    cobra.MinimumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			if _, err := u.Parse(arg); err != nil {
				output.PrintError("Invalid URL format: " + arg)
				os.Exit(1)
			}
		}
		if outputPath != "" && len(args) > 1 {
			output.PrintWarning("--output is ignored when more than one URL is given")
		}
		explicit, sink, err := openOutput(cmd.Context(), outputPath, len(args))
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		jobs := buildJobs(args, explicit)
		failures := scheduler.Run(cmd.Context(), jobs, newFetcher(), output.NewManager(os.Stderr))
		if sink != nil {
			if failures > 0 {
				sink.Abort(errDownloadFailed)
			} else if err := sink.Close(); err != nil {
				output.PrintError(err.Error())
				failures++
			}
		}
		if failures > 0 {
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path, '-' for stdout or s3://bucket/key (single URL only)")
	rootCmd.Flags().StringVar(&s3Profile, "s3-profile", "", "AWS profile for s3:// outputs")

	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.BrowserUserAgent, "User agent ('randomize' picks a browser agent)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Referer: https://www.mediafire.com/'); can be specified multiple times")
	rootCmd.PersistentFlags().IntVar(&maxHops, "max-hops", utils.DefaultMaxHops, "Maximum requests made while following confirmation pages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}

// buildJobs honours an explicit destination only for a single URL; with
// several URLs every name is derived from its own response.
func buildJobs(urls []string, explicit utils.Destination) []utils.Job {
	if len(urls) != 1 {
		explicit = nil
	}
	jobs := make([]utils.Job, 0, len(urls))
	for _, url := range urls {
		jobs = append(jobs, scheduler.NewJob(utils.DownloadRequest{URL: url, Output: explicit}))
	}
	return jobs
}

// openOutput maps the --output value to a destination. The returned sink is
// non-nil for s3:// outputs and must be closed or aborted by the caller.
func openOutput(ctx context.Context, value string, numURLs int) (utils.Destination, *s3sink.Sink, error) {
	if value == "" || numURLs != 1 {
		return nil, nil, nil
	}
	switch {
	case value == "-":
		return utils.StreamDestination{Writer: os.Stdout, Name: "<stdout>"}, nil, nil
	case s3sink.IsS3URL(value):
		sink, err := s3sink.New(ctx, value, s3Profile)
		if err != nil {
			return nil, nil, err
		}
		return utils.StreamDestination{Writer: sink, Name: value}, sink, nil
	default:
		return utils.PathDestination{Path: value}, nil, nil
	}
}

func buildHTTPConfig() utils.HTTPClientConfig {
	agent := userAgent
	if agent == "randomize" {
		agent = utils.GetRandomUserAgent()
	}
	proxy, username, password := proxyURL, proxyUsername, proxyPassword
	// Check if proxy URL contains auth
	parsedProxy, err := u.Parse(proxy)
	if err == nil && parsedProxy.User != nil && username == "" {
		username = parsedProxy.User.Username()
		if pass, set := parsedProxy.User.Password(); set {
			password = pass
		}
		parsedProxy.User = nil
		proxy = parsedProxy.String()
	}
	return utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxy,
		ProxyUsername: username,
		ProxyPassword: password,
		UserAgent:     agent,
		Headers:       utils.ParseHeaderArgs(headers),
	}
}

func newFetcher() *mediafire.Fetcher {
	return mediafire.NewFetcher(mediafire.Config{
		HTTP:    buildHTTPConfig(),
		MaxHops: maxHops,
		ErrOut:  os.Stderr,
	})
}
