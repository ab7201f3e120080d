package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/lox/holdem-trainer/internal/game"
)

// SizingRange is the recommended bet size range
type SizingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Advice is one recommended action and how often to take it
type Advice struct {
	Action      string       `json:"action"`
	Frequency   float64      `json:"frequency"`
	SizingRange *SizingRange `json:"sizingRange,omitempty"`
}

// Response is the advice service's answer
type Response struct {
	Advices     []Advice `json:"advices"`
	Explanation string   `json:"explanation,omitempty"`
}

// Best returns the most frequent recommendation
func (r *Response) Best() (Advice, bool) {
	if r == nil || len(r.Advices) == 0 {
		return Advice{}, false
	}
	best := r.Advices[0]
	for _, a := range r.Advices[1:] {
		if a.Frequency > best.Frequency {
			best = a
		}
	}
	return best, true
}

// Suggestion pairs a request with its response for storage alongside a hand
type Suggestion struct {
	PlayerID string     `json:"playerId"`
	Round    game.Round `json:"round"`
	Request  Request    `json:"request"`
	Response *Response  `json:"response,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Source produces advice for a request
type Source interface {
	Suggest(ctx context.Context, req Request) (*Response, error)
}

// DefaultBaseURL is where the advice service listens unless configured
const DefaultBaseURL = "http://localhost:8080"

// Client queries the advice service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables
// the limit.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the client logger
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("advice")
	return c
}

// Suggest issues GET {base}/poker/suggestion with the request as query
// parameters.
func (c *Client) Suggest(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("advice rate limit: %w", err)
		}
	}

	endpoint := c.baseURL + "/poker/suggestion?" + req.Values().Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build advice request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("Requesting suggestion", "role", req.MyRole, "phase", req.Phase, "potType", req.PotType)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advice request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("advice service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode advice response: %w", err)
	}
	return &out, nil
}
