package notion

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

const (
	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	defaultTimeout = 10 * time.Second
	maxPageSize    = 100
)

// Options configures NewClient. Zero values select the defaults.
type Options struct {
	// BaseURL overrides the API host, e.g. for a proxy. A trailing /v1 is
	// accepted and ignored.
	BaseURL string
	Version string
	Timeout time.Duration
}

// endpointRoundTripper redirects requests to another API host and pins the
// Notion-Version header.
type endpointRoundTripper struct {
	base    http.RoundTripper
	target  *url.URL
	prefix  string
	version string
}

func (t *endpointRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.target != nil {
		req.URL.Scheme = t.target.Scheme
		req.URL.Host = t.target.Host
		req.URL.Path = t.prefix + req.URL.Path
		req.URL.RawPath = ""
		req.Host = t.target.Host
	}
	req.Header.Set("Notion-Version", t.version)
	return t.base.RoundTrip(req)
}

// NewClient returns a notionapi client authenticating with token.
func NewClient(token string, opts Options) (*notionapi.Client, error) {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	rt := &endpointRoundTripper{base: http.DefaultTransport, version: opts.Version}
	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("notion: invalid base url %q", opts.BaseURL)
		}
		rt.target = u
		rt.prefix = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/v1")
	}

	hc := &http.Client{Transport: rt, Timeout: opts.Timeout}
	return notionapi.NewClient(notionapi.Token(token), notionapi.WithHTTPClient(hc)), nil
}
