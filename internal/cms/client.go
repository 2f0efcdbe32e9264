// Package cms executes named queries against the headless content store over its HTTP query API.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studyhub/internal/queries"
	"go.uber.org/zap"
)

const (
	// PerspectivePublished only sees published documents.
	PerspectivePublished = "published"
	// PerspectiveDrafts overlays drafts on published documents and needs a token.
	PerspectiveDrafts = "drafts"

	maxGETURLLength  = 11000
	maxResponseBytes = 10 << 20
	userAgent        = "studyhub-content/1.0"
)

// Config identifies the content store.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration

	// APIHost and CDNHost override the derived base URLs, e.g. in tests.
	APIHost string
	CDNHost string
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client 是显式构造、可注入的内容源查询客户端，不依赖任何进程级全局状态。
type Client struct {
	cfg      Config
	http     httpDoer
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(doer httpDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithCache enables response caching for published-perspective queries.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client. ProjectID and Dataset are required.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	cfg.Dataset = strings.TrimSpace(cfg.Dataset)
	cfg.APIVersion = strings.TrimPrefix(strings.TrimSpace(cfg.APIVersion), "v")
	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, errors.New("content store project id and dataset are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	if cfg.APIHost == "" {
		cfg.APIHost = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	if cfg.CDNHost == "" {
		cfg.CDNHost = fmt.Sprintf("https://%s.apicdn.sanity.io", cfg.ProjectID)
	}
	cfg.APIHost = strings.TrimRight(cfg.APIHost, "/")
	cfg.CDNHost = strings.TrimRight(cfg.CDNHost, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type fetchOptions struct {
	preview bool
}

// FetchOption adjusts a single Fetch call.
type FetchOption func(*fetchOptions)

// Preview requests draft content. It bypasses the CDN and the cache.
func Preview() FetchOption {
	return func(o *fetchOptions) { o.preview = true }
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"error"`
	Message string `json:"message"`
}

type postBody struct {
	Query  string          `json:"query"`
	Params json.RawMessage `json:"params"`
}

// Fetch executes q with params and returns the raw result: an array, an object or JSON null.
// It never transforms or filters the result and never retries.
func (c *Client) Fetch(ctx context.Context, q queries.Query, params Params, opts ...FetchOption) (json.RawMessage, error) {
	var o fetchOptions
	for _, opt := range opts {
		opt(&o)
	}
	if params == nil {
		params = Params{}
	}
	if err := params.validate(q); err != nil {
		return nil, err
	}

	perspective := PerspectivePublished
	if o.preview {
		perspective = PerspectiveDrafts
		if c.cfg.Token == "" {
			return nil, &QueryError{Query: q.Name, Description: "preview requires an access token"}
		}
	}

	useCache := c.cache != nil && c.cacheTTL > 0 && !o.preview
	var cacheKey string
	if useCache {
		key, err := CacheKey(q.Text, params, perspective)
		if err != nil {
			return nil, &QueryError{Query: q.Name, Description: err.Error()}
		}
		cacheKey = key
		payload, ok, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			c.logger.Warn("content cache read failed", zap.String("query", q.Name), zap.Error(err))
		case ok:
			c.logger.Debug("content cache hit", zap.String("query", q.Name))
			return json.RawMessage(payload), nil
		}
	}

	req, err := c.newRequest(ctx, q, params, perspective, o.preview)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := c.do(req, q)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("content query executed",
		zap.String("query", q.Name),
		zap.String("perspective", perspective),
		zap.Duration("duration", time.Since(start)),
	)

	if useCache {
		if err := c.cache.Set(ctx, cacheKey, q.Name, result, c.cacheTTL); err != nil {
			c.logger.Warn("content cache write failed", zap.String("query", q.Name), zap.Error(err))
		}
	}
	return result, nil
}

func (c *Client) endpoint(preview bool) string {
	host := c.cfg.APIHost
	if c.cfg.UseCDN && !preview {
		host = c.cfg.CDNHost
	}
	return fmt.Sprintf("%s/v%s/data/query/%s", host, c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset))
}

func (c *Client) newRequest(ctx context.Context, q queries.Query, params Params, perspective string, preview bool) (*http.Request, error) {
	endpoint := c.endpoint(preview)

	values := url.Values{}
	values.Set("query", q.Text)
	for _, key := range params.sortedKeys() {
		encoded, err := json.Marshal(params[key])
		if err != nil {
			return nil, &QueryError{Query: q.Name, Description: fmt.Sprintf("encode parameter %q: %v", key, err)}
		}
		values.Set("$"+key, string(encoded))
	}
	values.Set("perspective", perspective)
	values.Set("returnQuery", "false")

	var (
		req *http.Request
		err error
	)
	getURL := endpoint + "?" + values.Encode()
	if len(getURL) <= maxGETURLLength {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	} else {
		encodedParams, encErr := params.canonical()
		if encErr != nil {
			return nil, &QueryError{Query: q.Name, Description: encErr.Error()}
		}
		body, encErr := json.Marshal(postBody{Query: q.Text, Params: encodedParams})
		if encErr != nil {
			return nil, &QueryError{Query: q.Name, Description: encErr.Error()}
		}
		postURL := endpoint + "?" + url.Values{
			"perspective": {perspective},
			"returnQuery": {"false"},
		}.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, &QueryError{Query: q.Name, Description: fmt.Sprintf("build request: %v", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if preview {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, q queries.Query) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Query: q.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Query: q.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, &TransportError{Query: q.Name, StatusCode: resp.StatusCode, Err: errors.New(describe(body, resp.Status))}
	case resp.StatusCode >= http.StatusBadRequest:
		var payload errorResponse
		_ = json.Unmarshal(body, &payload)
		return nil, &QueryError{
			Query:       q.Name,
			StatusCode:  resp.StatusCode,
			Type:        payload.Error.Type,
			Description: describe(body, resp.Status),
		}
	}

	var payload queryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &TransportError{Query: q.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(payload.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return payload.Result, nil
}

func describe(body []byte, fallback string) string {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error.Description); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 512 {
		return msg
	}
	return fallback
}
