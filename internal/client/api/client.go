package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/logging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"
)

const (
	// CacheBustParam is the query parameter carrying the request timestamp.
	CacheBustParam  = "_"
	RequestIDHeader = "X-Request-ID"
)

// TokenSource yields the bearer token for the next request, or "".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Config struct {
	// Origin is the scheme and host a relative APIBase is joined onto.
	Origin string
	// APIBase is either an absolute URL or a path relative to Origin.
	APIBase string
	Timeout time.Duration
	Logger  logging.Logger
	// HTTPClient replaces the default pooled client. Its Jar is kept if set.
	HTTPClient *http.Client
}

type Client struct {
	base *url.URL
	http *http.Client
	log  logging.Logger
	now  func() time.Time

	mu     sync.RWMutex
	tokens TokenSource
}

// ResolveBase computes the base URL once: an absolute apiBase is used as is,
// a relative one is joined onto origin.
func ResolveBase(origin, apiBase string) (*url.URL, error) {
	if apiBase != "" {
		u, err := url.Parse(apiBase)
		if err != nil {
			return nil, fmt.Errorf("invalid api base %q: %w", apiBase, err)
		}
		if u.IsAbs() && u.Host != "" {
			return u, nil
		}
	}
	o, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if !o.IsAbs() || o.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	if apiBase == "" {
		return o, nil
	}
	return o.JoinPath(apiBase), nil
}

func New(cfg Config) (*Client, error) {
	base, err := ResolveBase(cfg.Origin, cfg.APIBase)
	if err != nil {
		return nil, err
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Client{base: base, http: hc, log: log, now: time.Now}, nil
}

// BaseURL returns a copy of the resolved base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

type requestOptions struct {
	method string
	body   any
	query  url.Values
	header http.Header
}

type Option func(*requestOptions)

func WithMethod(method string) Option {
	return func(o *requestOptions) { o.method = method }
}

// WithJSON sets the request body to the JSON encoding of v.
func WithJSON(v any) Option {
	return func(o *requestOptions) { o.body = v }
}

// WithQuery adds query values. Repeated keys are kept.
func WithQuery(q url.Values) Option {
	return func(o *requestOptions) {
		for k, vs := range q {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
	}
}

// WithHeader sets a header that overrides any default of the same name.
func WithHeader(key, value string) Option {
	return func(o *requestOptions) { o.header.Set(key, value) }
}

// Response is a 2xx reply. Body holds the raw bytes whether or not they are JSON.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON reports whether the body is a JSON document.
func (r *Response) JSON() bool {
	b := bytes.TrimSpace(r.Body)
	return len(b) > 0 && gjson.ValidBytes(b)
}

func (r *Response) Text() string {
	return string(r.Body)
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.JSON() {
		return fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) resolve(endpoint string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	u := c.base.JoinPath(ref.EscapedPath())
	q := ref.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set(CacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string, opts []Option) (*http.Request, string, error) {
	o := requestOptions{method: http.MethodGet, query: url.Values{}, header: http.Header{}}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := c.resolve(endpoint, o.query)
	if err != nil {
		return nil, "", err
	}

	var body io.Reader
	if o.body != nil {
		b, err := json.Marshal(o.body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, o.method, u.String(), body)
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	for k, vs := range o.header {
		req.Header[k] = vs
	}

	return req, requestID, nil
}

// do sends the request. The caller owns the body of a 2xx response; any
// other status is turned into *Error here.
func (c *Client) do(ctx context.Context, endpoint string, opts []Option) (*http.Response, error) {
	req, requestID, err := c.newRequest(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}

	log := c.log.With("method", req.Method, "url", redactURL(req.URL), "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug(ctx, "request cancelled", "elapsed", time.Since(start))
			return nil, ctxErr
		}
		log.Warn(ctx, "request failed", "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		apiErr := &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, b)}
		log.Info(ctx, "request rejected", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	return resp, nil
}

// Request performs one call and buffers the response body.
func (c *Client) Request(ctx context.Context, endpoint string, opts ...Option) (*Response, error) {
	resp, err := c.do(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

// Download streams a 2xx body into w and returns the file name announced in
// Content-Disposition, or "" when there is none.
func (c *Client) Download(ctx context.Context, endpoint string, w io.Writer, opts ...Option) (string, error) {
	resp, err := c.do(ctx, endpoint, opts)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("download %s: %w", endpoint, err)
	}

	return dispositionFilename(resp.Header.Get("Content-Disposition")), nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// errorMessage extracts the message of a non-2xx body.
func errorMessage(status int, body []byte) string {
	b := bytes.TrimSpace(body)
	if len(b) == 0 {
		return genericMessage(status)
	}
	if gjson.ValidBytes(b) {
		doc := gjson.ParseBytes(b)
		for _, key := range []string{"message", "error"} {
			if v := doc.Get(key); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				return v.Str
			}
		}
		return genericMessage(status)
	}
	return string(b)
}

func redactURL(u *url.URL) string {
	cp := *u
	cp.User = nil
	return cp.String()
}
