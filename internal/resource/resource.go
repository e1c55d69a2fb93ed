// Package resource models the inputs a detection call can probe: a local
// file or directory, a remote endpoint, or a remote endpoint with retained
// content.
//
// The variant set is closed. Code that treats the kinds differently
// switches on the concrete type rather than growing the shared interface.
package resource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	retry "github.com/sethvargo/go-retry"
)

// Kind tags the resource variants.
type Kind int

const (
	KindLocal Kind = iota
	KindRemote
	KindCached
)

// Resource is the capability surface shared by all variants.
type Resource interface {
	Kind() Kind
	URI() *url.URL
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Credentials carry optional basic-auth material for remote fetches.
// They are kept out of the URI so they never leak into logs or results.
type Credentials struct {
	Username string
	Password string
}

// Local is a file or directory on the local filesystem.
type Local struct {
	path string
}

// NewLocal wraps a filesystem path.
func NewLocal(path string) *Local {
	return &Local{path: filepath.Clean(path)}
}

// Path returns the cleaned filesystem path.
func (l *Local) Path() string { return l.path }

// Kind returns KindLocal.
func (l *Local) Kind() Kind { return KindLocal }

// URI returns a file URL for the path.
func (l *Local) URI() *url.URL {
	abs, err := filepath.Abs(l.path)
	if err != nil {
		abs = l.path
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
}

// IsDir reports whether the path exists and is a directory.
func (l *Local) IsDir() bool {
	fi, err := os.Stat(l.path)
	return err == nil && fi.IsDir()
}

// Open opens the file for reading. Directories are not streamable; callers
// enumerate them instead.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

const defaultFetchRetries = 2

// Remote is an HTTP(S) endpoint.
type Remote struct {
	uri     *url.URL
	client  *http.Client
	creds   *Credentials
	retries uint64
}

// RemoteOption configures a Remote at construction time.
type RemoteOption func(*Remote)

// WithClient sets the HTTP client used for fetches. Timeouts are the
// client's concern; the engine imposes none of its own.
func WithClient(c *http.Client) RemoteOption {
	return func(r *Remote) { r.client = c }
}

// WithCredentials sets basic-auth credentials.
func WithCredentials(username, password string) RemoteOption {
	return func(r *Remote) { r.creds = &Credentials{Username: username, Password: password} }
}

// WithRetries sets the retry budget for transient fetch failures.
func WithRetries(n uint64) RemoteOption {
	return func(r *Remote) { r.retries = n }
}

// NewRemote wraps an endpoint URL. The URL is copied; later mutation of the
// caller's value does not affect the resource.
func NewRemote(uri *url.URL, opts ...RemoteOption) *Remote {
	u := *uri
	r := &Remote{uri: &u, client: http.DefaultClient, retries: defaultFetchRetries}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Kind returns KindRemote.
func (r *Remote) Kind() Kind { return KindRemote }

// URI returns a copy of the endpoint URL.
func (r *Remote) URI() *url.URL {
	u := *r.uri
	return &u
}

// WithQueryParameters returns a copy of r with params merged into the query
// string. Parameters already present win, compared case-insensitively; the
// result uses canonical sorted query encoding. The receiver is not mutated.
func (r *Remote) WithQueryParameters(params map[string]string) *Remote {
	out := *r
	out.uri = mergeQuery(r.uri, params)
	return &out
}

// Open fetches the endpoint body. Transport errors and 5xx responses are
// retried on a fibonacci backoff within the retry budget; other non-2xx
// statuses fail immediately.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	var body io.ReadCloser
	backoff := retry.NewFibonacci(250 * time.Millisecond)
	err := retry.Do(ctx, retry.WithMaxRetries(r.retries, backoff), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.uri.String(), nil)
		if err != nil {
			return err
		}
		if r.creds != nil {
			req.SetBasicAuth(r.creds.Username, r.creds.Password)
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return retry.RetryableError(fmt.Errorf("status %s", resp.Status))
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			resp.Body.Close()
			return fmt.Errorf("status %s", resp.Status)
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", r.uri.Redacted(), err)
	}
	return body, nil
}

// Cached is a remote endpoint whose body is retained after the first fetch
// so repeated probing does not refetch. Not safe for concurrent use.
type Cached struct {
	remote *Remote
	body   []byte
}

// NewCached wraps a remote endpoint. The body is fetched lazily on first Open.
func NewCached(remote *Remote) *Cached {
	return &Cached{remote: remote}
}

// CachedBytes wraps a remote endpoint with content the caller already holds.
func CachedBytes(remote *Remote, body []byte) *Cached {
	return &Cached{remote: remote, body: body}
}

// Kind returns KindCached.
func (c *Cached) Kind() Kind { return KindCached }

// URI returns a copy of the endpoint URL.
func (c *Cached) URI() *url.URL { return c.remote.URI() }

// WithQueryParameters merges params as Remote.WithQueryParameters does.
// Retained content survives only if the URL is unchanged by the merge.
func (c *Cached) WithQueryParameters(params map[string]string) *Cached {
	merged := c.remote.WithQueryParameters(params)
	if merged.uri.String() == c.remote.uri.String() {
		return &Cached{remote: merged, body: c.body}
	}
	return &Cached{remote: merged}
}

// Open returns the retained body, fetching it first if necessary.
func (c *Cached) Open(ctx context.Context) (io.ReadCloser, error) {
	if c.body == nil {
		stream, err := c.remote.Open(ctx)
		if err != nil {
			return nil, err
		}
		defer stream.Close()
		body, err := io.ReadAll(stream)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", c.remote.uri.Redacted(), err)
		}
		c.body = body
	}
	return io.NopCloser(bytes.NewReader(c.body)), nil
}

// mergeQuery copies u with defaults merged into its query. Existing keys
// win, compared case-insensitively.
func mergeQuery(u *url.URL, params map[string]string) *url.URL {
	q := u.Query()
	present := make(map[string]bool, len(q))
	for k := range q {
		present[strings.ToLower(k)] = true
	}
	for k, v := range params {
		if present[strings.ToLower(k)] {
			continue
		}
		q.Set(k, v)
	}
	out := *u
	out.RawQuery = q.Encode()
	return &out
}
