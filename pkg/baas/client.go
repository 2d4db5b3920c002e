// Package baas is a small SDK for the hosted Backend-as-a-Service that owns
// every piece of ansnips data: accounts and sessions, document collections,
// file buckets and the realtime channel.
package baas

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

const (
	headerProject = "X-Appwrite-Project"
	headerKey     = "X-Appwrite-Key"
	headerSession = "X-Appwrite-Session"
	headerJWT     = "X-Appwrite-JWT"
)

// Config holds the connection settings for a BaaS project
type Config struct {
	Endpoint         string
	RealtimeEndpoint string
	Project          string
	APIKey           string
	Timeout          time.Duration
	UserAgent        string
}

// Client is a BaaS project client. It is safe for concurrent use.
type Client struct {
	config Config
	http   *resty.Client

	mu      sync.RWMutex
	session string
	jwt     string
}

// NewClient creates a client for the given project
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ansnips/0.1.0"
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	h := resty.New()
	h.SetBaseURL(cfg.Endpoint)
	h.SetTimeout(cfg.Timeout)
	h.SetHeader("User-Agent", cfg.UserAgent)
	h.SetHeader(headerProject, cfg.Project)
	if cfg.APIKey != "" {
		h.SetHeader(headerKey, cfg.APIKey)
	}

	c := &Client{config: cfg, http: h}

	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug("BaaS request", "method", req.Method, "url", req.URL)
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.session != "" {
			req.Header.Set(headerSession, c.session)
		}
		if c.jwt != "" {
			req.Header.Set(headerJWT, c.jwt)
		}
		return nil
	})

	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("BaaS response", "status", resp.StatusCode(), "url", resp.Request.URL)
		return nil
	})

	return c
}

// Config returns the client configuration
func (c *Client) Config() Config {
	return c.config
}

// SetSession sets the session secret sent with every request
func (c *Client) SetSession(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = secret
}

// Session returns the current session secret
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetJWT authenticates requests with a short lived account JWT
func (c *Client) SetJWT(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jwt = token
}

// ClearAuth drops both the session secret and the JWT
func (c *Client) ClearAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = ""
	c.jwt = ""
}

// R returns a request bound to ctx
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// call performs a request and decodes a successful JSON body into result
// (result may be nil). Non-2xx responses become *Error.
func (c *Client) call(ctx context.Context, method, path string, body interface{}, result interface{}) (*resty.Response, error) {
	req := c.R(ctx)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(data)
	}

	resp, err := req.Execute(method, path)
	if err := CheckResponse(resp, err); err != nil {
		return resp, err
	}

	if result != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

// fileURL builds an absolute URL for browser-style file access, which
// authenticates through the project query parameter instead of headers.
func (c *Client) fileURL(path string, params map[string]string) string {
	var sb strings.Builder
	sb.WriteString(c.config.Endpoint)
	sb.WriteString(path)
	sb.WriteString("?project=")
	sb.WriteString(c.config.Project)
	for _, k := range sortedKeys(params) {
		sb.WriteString("&")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
	}
	return sb.String()
}
