// Package purge deletes the authenticated user's own messages from a single
// conversation, walking its history page by page.
package purge

import (
	"context"
	"fmt"

	"github.com/aatumaykin/slacknuke/internal/logger"
	"github.com/aatumaykin/slacknuke/internal/slack"
)

// previewLength bounds the message text echoed for each deletion.
const previewLength = 50

// API is the slice of the Slack client the purger needs.
type API interface {
	History(ctx context.Context, channelID, cursor string) (*slack.HistoryResponse, error)
	DeleteMessage(ctx context.Context, channelID, ts string) (*slack.DeleteResponse, error)
}

// Purger walks one conversation at a time. Messages not owned by the user
// and system-generated messages are skipped; expected delete rejections
// (too old / restricted) are skipped silently; anything else is logged and
// processing continues.
type Purger struct {
	api    API
	logger *logger.Logger
}

// New creates a Purger over the given API.
func New(api API, log *logger.Logger) *Purger {
	return &Purger{
		api:    api,
		logger: log,
	}
}

// Purge deletes the user's messages in a single conversation and returns
// the deleted and skipped counts. API-level rejections are advisory: a
// non-ok page fetch ends the conversation, a rejected delete moves on to
// the next message. The error result is non-nil only when the pass was cut
// short by a transport failure or context cancellation — such a pass has
// not actually scanned the conversation and must not be treated as clean.
func (p *Purger) Purge(ctx context.Context, channelID, channelName, userID string) (deleted, skipped int, err error) {
	cursor := ""

	for {
		resp, herr := p.api.History(ctx, channelID, cursor)
		if herr != nil {
			p.logger.Error("Failed to fetch history", herr,
				logger.Field{Key: "channel", Value: channelName})
			return deleted, skipped, fmt.Errorf("history fetch failed: %w", herr)
		}

		if !resp.OK {
			if resp.Error == slack.ErrChannelNotFound {
				p.logger.Info("Skipping conversation: not accessible",
					logger.Field{Key: "channel", Value: channelName})
			} else {
				p.logger.Warn("History fetch failed",
					logger.Field{Key: "channel", Value: channelName},
					logger.Field{Key: "reason", Value: resp.Error})
			}
			break
		}

		if len(resp.Messages) == 0 {
			break
		}

		for _, msg := range resp.Messages {
			// Only delete the user's own messages
			if msg.User != userID {
				skipped++
				continue
			}

			// Skip system messages
			if msg.Subtype != "" {
				skipped++
				continue
			}

			d, s, derr := p.deleteOne(ctx, channelID, msg)
			deleted += d
			skipped += s
			if derr != nil && err == nil {
				err = derr
			}
		}

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
		p.logger.Debug("Fetching more messages",
			logger.Field{Key: "channel", Value: channelName})
	}

	return deleted, skipped, err
}

// deleteOne issues a single delete and classifies the outcome. A transport
// failure is returned so the whole pass is marked unreliable; processing
// still continues with the next message.
func (p *Purger) deleteOne(ctx context.Context, channelID string, msg slack.Message) (deleted, skipped int, err error) {
	resp, err := p.api.DeleteMessage(ctx, channelID, msg.TS)
	if err != nil {
		p.logger.Error("Failed to delete message", err,
			logger.Field{Key: "channel", Value: channelID},
			logger.Field{Key: "ts", Value: msg.TS})
		return 0, 0, fmt.Errorf("delete failed: %w", err)
	}

	if resp.OK {
		p.logger.Info("Deleted message",
			logger.Field{Key: "ts", Value: msg.TS},
			logger.Field{Key: "preview", Value: truncatePreview(msg.Text)})
		return 1, 0, nil
	}

	// Too old or restricted by workspace policy, an expected rejection
	if resp.Error == slack.ErrCantDeleteMessage {
		return 0, 1, nil
	}

	p.logger.Warn("Delete rejected",
		logger.Field{Key: "channel", Value: channelID},
		logger.Field{Key: "ts", Value: msg.TS},
		logger.Field{Key: "reason", Value: resp.Error})
	return 0, 0, nil
}

// truncatePreview cuts the message text to previewLength runes.
func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
