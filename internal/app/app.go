// Package app wires the Slack client, completion cache and purger into the
// full cleanup run: resolve identity, enumerate conversations, purge each
// one not yet marked clean, and persist progress as it goes.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/aatumaykin/slacknuke/internal/cache"
	"github.com/aatumaykin/slacknuke/internal/logger"
	"github.com/aatumaykin/slacknuke/internal/purge"
	"github.com/aatumaykin/slacknuke/internal/slack"
	"github.com/google/uuid"
)

// SlackAPI is the slice of the Slack client the orchestrator needs.
type SlackAPI interface {
	AuthTest(ctx context.Context) (*slack.AuthTestResponse, error)
	ListAllConversations(ctx context.Context) ([]slack.Conversation, error)
	purge.API
}

// App represents the cleanup run. It holds references to all major
// components; execution is purely sequential.
type App struct {
	api    SlackAPI
	store  *cache.Store
	purger *purge.Purger
	logger *logger.Logger
	out    io.Writer // Human-readable progress output
}

// New creates a new App instance over the given API, cache store and logger.
// Progress lines are written to out.
func New(api SlackAPI, store *cache.Store, log *logger.Logger, out io.Writer) *App {
	return &App{
		api:    api,
		store:  store,
		purger: purge.New(api, log),
		logger: log,
		out:    out,
	}
}

// Run performs the whole cleanup pass. Identity resolution, conversation
// enumeration and cache loading failures abort the run, as does context
// cancellation; per-conversation failures are advisory and only logged.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := a.logger.With(logger.Field{Key: "run_id", Value: runID})

	// Resolve the authenticated identity
	auth, err := a.api.AuthTest(ctx)
	if err != nil {
		return fmt.Errorf("could not resolve user identity: %w", err)
	}
	if !auth.OK || auth.UserID == "" {
		return fmt.Errorf("could not resolve user identity: %s (check your token)", auth.Error)
	}
	userID := auth.UserID
	fmt.Fprintf(a.out, "Your user ID: %s\n", userID)
	log.Info("Identity resolved",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "team", Value: auth.Team})

	// Enumerate every conversation the user is a member of
	fmt.Fprintln(a.out, "Fetching all conversations...")
	conversations, err := a.api.ListAllConversations(ctx)
	if err != nil {
		return fmt.Errorf("error fetching conversations: %w", err)
	}
	fmt.Fprintf(a.out, "Found %d conversations\n", len(conversations))

	// Filter out already-processed conversations, keeping enumeration order
	processed, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load completion cache: %w", err)
	}

	var remaining []slack.Conversation
	for _, conv := range conversations {
		if !processed.Contains(conv.ID) {
			remaining = append(remaining, conv)
		}
	}
	fmt.Fprintf(a.out, "Already processed: %d, Remaining: %d\n\n", len(processed), len(remaining))

	totalDeleted := 0
	totalSkipped := 0

	for i, conv := range remaining {
		name := conv.DisplayName()
		left := len(remaining) - i - 1

		fmt.Fprintf(a.out, "Processing: %s (%s)\n", name, conv.ID)
		deleted, skipped, passErr := a.purger.Purge(ctx, conv.ID, name, userID)
		totalDeleted += deleted
		totalSkipped += skipped

		if deleted > 0 {
			fmt.Fprintf(a.out, "  -> Deleted %d messages\n", deleted)
		}

		// A cancelled run must stop before any cache write: the remaining
		// conversations were never scanned and are not clean
		if cerr := ctx.Err(); cerr != nil {
			return fmt.Errorf("run interrupted: %w", cerr)
		}

		// A clean pass with zero deletions means this conversation is done;
		// persist immediately so an interrupted run resumes here. A pass cut
		// short by a transport error proves nothing and is revisited next run.
		switch {
		case passErr != nil:
			log.Warn("Conversation pass incomplete, will revisit",
				logger.Field{Key: "channel", Value: conv.ID},
				logger.Field{Key: "reason", Value: passErr.Error()})
		case deleted == 0:
			processed.Add(conv.ID)
			if err := a.store.Save(processed); err != nil {
				log.Error("Failed to save completion cache", err,
					logger.Field{Key: "channel", Value: conv.ID})
			}
		}

		fmt.Fprintf(a.out, "  -> %d conversations remaining\n\n", left)
	}

	fmt.Fprintf(a.out, "Done! Deleted: %d, Skipped: %d\n", totalDeleted, totalSkipped)
	log.Info("Run finished",
		logger.Field{Key: "deleted", Value: totalDeleted},
		logger.Field{Key: "skipped", Value: totalSkipped})

	return nil
}
