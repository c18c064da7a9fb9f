package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aatumaykin/slacknuke/internal/backoff"
	"github.com/aatumaykin/slacknuke/internal/logger"
)

const (
	// DefaultBaseURL is the Slack Web API root.
	DefaultBaseURL = "https://slack.com/api"
	// DefaultPageSize is the page size for list and history calls.
	DefaultPageSize = 200
	// RequestTimeout is the per-request HTTP timeout.
	RequestTimeout = 60 * time.Second

	// conversationTypes are the four conversation kinds enumerated.
	conversationTypes = "public_channel,private_channel,mpim,im"
)

// Config contains configuration for the Slack client.
type Config struct {
	Token               string // User OAuth token for bearer auth
	BaseURL             string // API root (optional, defaults to DefaultBaseURL)
	PageSize            int    // Page size for paginated calls (optional, defaults to 200)
	MaxRateLimitRetries int    // Retry ceiling per call, 0 = unbounded
}

// Client is a Slack Web API client. Rate-limited responses are retried
// transparently through the shared adaptive backoff; every other API
// outcome, success or error, is returned as a plain envelope value.
type Client struct {
	client  *http.Client     // HTTP client for API requests
	config  Config           // Client configuration
	backoff *backoff.Backoff // Adaptive delay shared by all calls
	logger  *logger.Logger
}

// NewClient creates a new Client instance.
func NewClient(cfg Config, bo *backoff.Backoff, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	return &Client{
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		config:  cfg,
		backoff: bo,
		logger:  log,
	}
}

// doRequest executes a single HTTP request and returns the raw response body.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, reqBody []byte) ([]byte, error) {
	apiURL := c.config.BaseURL + "/" + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.Token))
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return respBody, nil
}

// call performs an API call with transparent retry on rate limiting.
// While the server reports "ratelimited" the shared delay is doubled and the
// same request repeated; the first non-rate-limited response settles the
// delay and is decoded into out as-is, API errors included.
func (c *Client) call(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	retries := 0
	for {
		respBody, err := c.doRequest(ctx, method, endpoint, query, reqBody)
		if err != nil {
			return err
		}

		var envelope APIResponse
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if envelope.Error == ErrRateLimited {
			retries++
			if c.config.MaxRateLimitRetries > 0 && retries > c.config.MaxRateLimitRetries {
				return fmt.Errorf("%s: still rate limited after %d retries", endpoint, c.config.MaxRateLimitRetries)
			}

			delay := c.backoff.RateLimited()
			c.logger.Warn("Rate limited, waiting before retry",
				logger.Field{Key: "endpoint", Value: endpoint},
				logger.Field{Key: "delay", Value: delay.String()},
				logger.Field{Key: "retries", Value: retries})

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		c.backoff.Settled()

		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return nil
	}
}

// AuthTest resolves the authenticated identity.
func (c *Client) AuthTest(ctx context.Context) (*AuthTestResponse, error) {
	var resp AuthTestResponse
	if err := c.call(ctx, http.MethodGet, "auth.test", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListConversations fetches one page of conversations the user is a member of.
func (c *Client) ListConversations(ctx context.Context, cursor string) (*ConversationsListResponse, error) {
	query := url.Values{}
	query.Set("types", conversationTypes)
	query.Set("limit", strconv.Itoa(c.config.PageSize))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var resp ConversationsListResponse
	if err := c.call(ctx, http.MethodGet, "conversations.list", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAllConversations follows the pagination cursor until exhausted and
// returns every conversation. A non-ok page fails the whole enumeration.
func (c *Client) ListAllConversations(ctx context.Context) ([]Conversation, error) {
	var all []Conversation
	cursor := ""

	for {
		resp, err := c.ListConversations(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if !resp.OK {
			return nil, fmt.Errorf("conversations.list failed: %s", resp.Error)
		}

		all = append(all, resp.Channels...)

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			return all, nil
		}
	}
}

// History fetches one page of a conversation's message history.
func (c *Client) History(ctx context.Context, channelID, cursor string) (*HistoryResponse, error) {
	query := url.Values{}
	query.Set("channel", channelID)
	query.Set("limit", strconv.Itoa(c.config.PageSize))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var resp HistoryResponse
	if err := c.call(ctx, http.MethodGet, "conversations.history", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// deleteRequest is the chat.delete request body.
type deleteRequest struct {
	Channel string `json:"channel"` // Conversation ID
	TS      string `json:"ts"`      // Message timestamp
}

// DeleteMessage deletes a single message by its conversation and timestamp.
func (c *Client) DeleteMessage(ctx context.Context, channelID, ts string) (*DeleteResponse, error) {
	body := deleteRequest{
		Channel: channelID,
		TS:      ts,
	}

	var resp DeleteResponse
	if err := c.call(ctx, http.MethodPost, "chat.delete", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
