package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
)

const (
	DefaultBaseURL = "https://api.line.me/"
	pushPath       = "v2/bot/message/push"
	timeout        = 30 * time.Second

	EnvChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvUserID             = "LINE_USER_ID"
)

// ErrMissingCredentials is returned when the access token or recipient is not configured
var ErrMissingCredentials = errors.New("LINE credentials not configured")

// Message is one entry of a push request
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PushRequest is the body of a push message call
type PushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// PushResponse is the body of a successful push
type PushResponse struct {
	SentMessages []struct {
		ID string `json:"id"`
	} `json:"sentMessages"`
}

// APIError describes a non-200 answer from the Messaging API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Details    []struct {
		Message  string `json:"message"`
		Property string `json:"property"`
	} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("LINE API error (status %d)", e.StatusCode)
	}
	msg := fmt.Sprintf("LINE API error (status %d): %s", e.StatusCode, e.Message)
	for _, d := range e.Details {
		msg += fmt.Sprintf("; %s: %s", d.Property, d.Message)
	}
	return msg
}

// Client represents a LINE Messaging API client
type Client struct {
	to    string
	sling *sling.Sling
}

type options struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client
type Option func(*options)

// WithBaseURL points the client at another API host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a new LINE client.
// Missing credentials return an error wrapping ErrMissingCredentials.
func NewClient(accessToken, to string, opts ...Option) (*Client, error) {
	var missing []string
	if strings.TrimSpace(accessToken) == "" {
		missing = append(missing, EnvChannelAccessToken)
	}
	if strings.TrimSpace(to) == "" {
		missing = append(missing, EnvUserID)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}

	o := &options{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(o)
	}

	base := o.baseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &Client{
		to: to,
		sling: sling.New().
			Client(o.httpClient).
			Base(base).
			Set("Authorization", "Bearer "+accessToken),
	}, nil
}

// PushText sends a text message to the configured recipient.
// It returns nil only when the API answered HTTP 200.
func (c *Client) PushText(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	body := &PushRequest{
		To:       c.to,
		Messages: []Message{{Type: "text", Text: text}},
	}

	req, err := c.sling.New().Post(pushPath).BodyJSON(body).Request()
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	success := new(PushResponse)
	apiErr := new(APIError)
	resp, err := c.sling.Do(req.WithContext(ctx), success, apiErr)
	if resp == nil {
		return fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	// A 200 is a confirmed delivery even if the body could not be decoded
	return nil
}
