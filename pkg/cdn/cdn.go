// Package cdn uploads reel videos to the media CDN and builds delivery URLs
// for its on-the-fly transformations.
package cdn

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// ErrNotConfigured is returned when the CDN credentials are missing
var ErrNotConfigured = errors.New("media CDN is not configured")

// Config holds the CDN account settings
type Config struct {
	BaseURL      string
	DeliveryURL  string
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	Timeout      time.Duration
}

// Upload is the result of a successful video upload
type Upload struct {
	PublicID     string  `json:"public_id"`
	SecureURL    string  `json:"secure_url"`
	ResourceType string  `json:"resource_type"`
	Format       string  `json:"format"`
	Duration     float64 `json:"duration"`
	Bytes        int64   `json:"bytes"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
}

// Error is an error reported by the CDN
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cdn error [%d]: %s", e.StatusCode, e.Message)
}

// Client talks to the CDN upload API
type Client struct {
	config Config
	http   *resty.Client
	now    func() time.Time
}

// NewClient creates a CDN client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.DeliveryURL = strings.TrimRight(cfg.DeliveryURL, "/")

	h := resty.New()
	h.SetBaseURL(cfg.BaseURL)
	h.SetTimeout(cfg.Timeout)

	return &Client{config: cfg, http: h, now: time.Now}
}

// Configured reports whether uploads can be made
func (c *Client) Configured() bool {
	if c.config.CloudName == "" {
		return false
	}
	return c.config.UploadPreset != "" || (c.config.APIKey != "" && c.config.APISecret != "")
}

// Sign computes the request signature: SHA-1 over the sorted k=v pairs
// joined by '&', followed by the API secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// signed adds timestamp, api_key and signature to params when a secret is
// configured; otherwise it falls back to the unsigned upload preset.
func (c *Client) signed(params map[string]string) map[string]string {
	if c.config.APISecret == "" {
		params["upload_preset"] = c.config.UploadPreset
		return params
	}
	params["timestamp"] = strconv.FormatInt(c.now().Unix(), 10)
	params["signature"] = Sign(params, c.config.APISecret)
	params["api_key"] = c.config.APIKey
	return params
}

// UploadVideo uploads the video at path into folder
func (c *Client) UploadVideo(ctx context.Context, path, folder string) (*Upload, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	logger.Debug("Uploading video to CDN", "path", path, "folder", folder)

	params := c.signed(map[string]string{"folder": folder})

	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", path).
		SetFormData(params).
		Post(fmt.Sprintf("/%s/video/upload", c.config.CloudName))
	if err := checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	var upload Upload
	if err := json.Unmarshal(resp.Body(), &upload); err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	logger.Debug("Video uploaded", "public_id", upload.PublicID, "duration", upload.Duration)
	return &upload, nil
}

// Destroy deletes an uploaded video. Destroy needs a signed request.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if c.config.CloudName == "" || c.config.APISecret == "" {
		return ErrNotConfigured
	}
	logger.Debug("Deleting video from CDN", "public_id", publicID)

	params := c.signed(map[string]string{"public_id": publicID, "invalidate": "true"})

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(params).
		Post(fmt.Sprintf("/%s/video/destroy", c.config.CloudName))
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("destroy video %s: %w", publicID, err)
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Errorf("decode destroy: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return &Error{StatusCode: resp.StatusCode(), Message: result.Result}
	}
	return nil
}

func (c *Client) deliveryURL(transform, publicID, ext string) string {
	return fmt.Sprintf("%s/%s/video/upload/%s/%s.%s", c.config.DeliveryURL, c.config.CloudName, transform, publicID, ext)
}

// ThumbnailURL is a JPEG poster frame taken from the first second
func (c *Client) ThumbnailURL(publicID string) string {
	return c.deliveryURL("so_0,c_fill,w_480,h_854", publicID, "jpg")
}

// StreamURL is an mp4 rendition at the given quality, such as "auto:eco"
// or "60". An empty quality means "auto".
func (c *Client) StreamURL(publicID, quality string) string {
	if quality == "" {
		quality = "auto"
	}
	return c.deliveryURL("q_"+quality+",f_auto", publicID, "mp4")
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := resp.Status()
	if json.Unmarshal(resp.Body(), &body) == nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	return &Error{StatusCode: resp.StatusCode(), Message: msg}
}
