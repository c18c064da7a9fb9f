// Package slack implements the subset of the Slack Web API this tool
// consumes: auth.test, conversations.list, conversations.history and
// chat.delete. All calls share one adaptive rate-limit backoff.
package slack

// API error reasons with special handling. Any other reason is surfaced
// to the caller as a plain envelope value.
const (
	// ErrRateLimited is retried transparently by the client.
	ErrRateLimited = "ratelimited"
	// ErrChannelNotFound means the conversation is not accessible.
	ErrChannelNotFound = "channel_not_found"
	// ErrCantDeleteMessage is an expected rejection (too old / restricted).
	ErrCantDeleteMessage = "cant_delete_message"
)

// APIResponse is the common ok/error envelope every Slack response carries.
type APIResponse struct {
	OK    bool   `json:"ok"`              // Success flag
	Error string `json:"error,omitempty"` // Error reason when OK is false
}

// ResponseMetadata carries the pagination cursor for list endpoints.
type ResponseMetadata struct {
	NextCursor string `json:"next_cursor"` // Empty when no further pages exist
}

// Conversation represents one entry from conversations.list.
type Conversation struct {
	ID     string `json:"id"`                // Conversation ID (C..., D..., G...)
	Name   string `json:"name,omitempty"`    // Channel name (empty for IMs)
	IsIM   bool   `json:"is_im,omitempty"`   // Direct message
	IsMPIM bool   `json:"is_mpim,omitempty"` // Multi-party direct message
	User   string `json:"user,omitempty"`    // Peer user ID for IMs
}

// DisplayName returns a readable label for the conversation: the peer user
// for direct messages, otherwise the channel name, falling back to the ID.
func (c Conversation) DisplayName() string {
	if c.IsIM {
		if c.User == "" {
			return "DM:unknown"
		}
		return "DM:" + c.User
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Message represents one entry from conversations.history.
type Message struct {
	TS      string `json:"ts"`                // Timestamp, unique within the conversation
	User    string `json:"user,omitempty"`    // Authoring user ID
	Subtype string `json:"subtype,omitempty"` // Non-empty for system-generated messages
	Text    string `json:"text,omitempty"`    // Message text
}

// AuthTestResponse is the auth.test payload.
type AuthTestResponse struct {
	APIResponse
	UserID string `json:"user_id,omitempty"` // Authenticated user ID
	User   string `json:"user,omitempty"`    // Authenticated user name
	Team   string `json:"team,omitempty"`    // Workspace name
}

// ConversationsListResponse is the conversations.list payload.
type ConversationsListResponse struct {
	APIResponse
	Channels         []Conversation   `json:"channels,omitempty"`
	ResponseMetadata ResponseMetadata `json:"response_metadata,omitempty"`
}

// HistoryResponse is the conversations.history payload.
type HistoryResponse struct {
	APIResponse
	Messages         []Message        `json:"messages,omitempty"`
	HasMore          bool             `json:"has_more,omitempty"`
	ResponseMetadata ResponseMetadata `json:"response_metadata,omitempty"`
}

// DeleteResponse is the chat.delete payload.
type DeleteResponse struct {
	APIResponse
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}
