// Package profile resolves email addresses to contacts through a Gravatar
// style lookup service.
package profile

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/giantswarm/contacts/pkg/logging"
)

// maxBodySize bounds profile documents and avatar images.
const maxBodySize = 4 << 20

// Root is the profile document served at <base>/<hash>.json.
type Root struct {
	Entry []Entry `json:"entry"`
}

// Entry is a single profile of a Root document.
type Entry struct {
	ID                string  `json:"id"`
	Hash              string  `json:"hash"`
	RequestHash       string  `json:"requestHash"`
	ProfileURL        string  `json:"profileUrl"`
	PreferredUsername string  `json:"preferredUsername"`
	ThumbnailURL      string  `json:"thumbnailUrl"`
	Photos            []Photo `json:"photos"`
	DisplayName       string  `json:"displayName"`
}

// Photo is one image attached to a profile.
type Photo struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ErrNoProfile is returned when a profile document has no usable entry.
var ErrNoProfile = errors.New("profile has no entries")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Normalize trims and lowercases an email address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Hash returns the Gravatar hash of an email: the hex MD5 of the normalized
// address.
func Hash(email string) string {
	sum := md5.Sum([]byte(Normalize(email)))
	return hex.EncodeToString(sum[:])
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint

	// InitialBackoff is the first retry delay. Defaults to 200ms.
	InitialBackoff time.Duration

	// HTTPClient defaults to a client without its own timeout; every request
	// gets a context deadline of Timeout instead.
	HTTPClient *http.Client
}

// Client fetches profile documents and avatar images.
type Client struct {
	baseURL        string
	timeout        time.Duration
	maxRetries     uint
	initialBackoff time.Duration
	http           *http.Client
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		http:           cfg.HTTPClient,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.maxRetries == 0 {
		c.maxRetries = 1
	}
	if c.initialBackoff <= 0 {
		c.initialBackoff = 200 * time.Millisecond
	}
	return c
}

// ProfileURL returns the profile document location for an email.
func (c *Client) ProfileURL(email string) string {
	return fmt.Sprintf("%s/%s.json", c.baseURL, Hash(email))
}

// FetchProfile downloads and decodes the profile document for an email.
func (c *Client) FetchProfile(ctx context.Context, email string) (Entry, error) {
	profileURL := c.ProfileURL(email)
	body, err := c.get(ctx, profileURL)
	if err != nil {
		return Entry{}, err
	}

	var root Root
	if err := json.Unmarshal(body, &root); err != nil {
		return Entry{}, fmt.Errorf("failed to decode profile %s: %w", profileURL, err)
	}
	if len(root.Entry) == 0 {
		return Entry{}, ErrNoProfile
	}
	return root.Entry[0], nil
}

// AvatarURL returns the first photo of an entry sized to size*scale pixels.
func AvatarURL(entry Entry, size int, scale float64) (string, error) {
	if len(entry.Photos) == 0 {
		return "", fmt.Errorf("profile %s has no photos", entry.Hash)
	}
	u, err := url.Parse(entry.Photos[0].Value)
	if err != nil {
		return "", fmt.Errorf("invalid photo URL %q: %w", entry.Photos[0].Value, err)
	}
	q := url.Values{}
	q.Set("s", strconv.Itoa(int(math.Round(float64(size)*scale))))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchAvatar downloads avatar image bytes.
func (c *Client) FetchAvatar(ctx context.Context, avatarURL string) ([]byte, error) {
	return c.get(ctx, avatarURL)
}

// get performs a GET with a per-attempt timeout and exponential backoff.
// 4xx responses other than 408 and 429 are not retried.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		logging.Debug("Profile", "GET %s (attempt %d/%d)", target, attempt, c.maxRetries)

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "contacts")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{URL: target, StatusCode: resp.StatusCode}
			if retryable(resp.StatusCode) {
				return nil, statusErr
			}
			return nil, backoff.Permanent(statusErr)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
		if err != nil {
			return nil, err
		}
		if len(body) > maxBodySize {
			return nil, backoff.Permanent(fmt.Errorf("response from %s too large: exceeds %d bytes", target, maxBodySize))
		}
		return body, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logging.Debug("Profile", "GET %s failed, retrying in %s: %v", target, next, err)
		}),
	)
}

func retryable(status int) bool {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
