package eventsapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/eventify/eventify-desk/internal/version"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const DefaultBaseURL = "http://localhost:8000/api/v1"

type ConnectionStatus string

const (
	StatusUnknown      ConnectionStatus = "unknown"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// Client talks to the remote EventiFy API. It holds the bearer token for
// the active session; all state of substance lives on the server.
type Client struct {
	http *resty.Client

	mu     sync.RWMutex
	token  string
	status ConnectionStatus
}

type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{status: StatusUnknown, token: opts.Token}
	c.http = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", fmt.Sprintf("eventify-desk/%s", version.Version))
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		if token := c.Token(); token != "" {
			req.SetAuthToken(token)
		}
		return nil
	})
	return c
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the bearer token; subsequent requests are anonymous.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Status() ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) setStatus(status ConnectionStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}
