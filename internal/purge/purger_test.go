package purge

import (
	"context"
	"errors"
	"testing"

	"github.com/aatumaykin/slacknuke/internal/logger"
	"github.com/aatumaykin/slacknuke/internal/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned history pages keyed by cursor and records every
// delete call.
type fakeAPI struct {
	pages        map[string]*slack.HistoryResponse
	historyErr   error
	deleteByTS   map[string]*slack.DeleteResponse
	deleteErr    error
	historyCalls int
	deletedTS    []string
}

func (f *fakeAPI) History(ctx context.Context, channelID, cursor string) (*slack.HistoryResponse, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if page, ok := f.pages[cursor]; ok {
		return page, nil
	}
	return &slack.HistoryResponse{APIResponse: slack.APIResponse{OK: true}}, nil
}

func (f *fakeAPI) DeleteMessage(ctx context.Context, channelID, ts string) (*slack.DeleteResponse, error) {
	f.deletedTS = append(f.deletedTS, ts)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if resp, ok := f.deleteByTS[ts]; ok {
		return resp, nil
	}
	return &slack.DeleteResponse{APIResponse: slack.APIResponse{OK: true}}, nil
}

func newTestPurger(t *testing.T, api *fakeAPI) *Purger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	return New(api, log)
}

func page(ok bool, apiErr, nextCursor string, msgs ...slack.Message) *slack.HistoryResponse {
	return &slack.HistoryResponse{
		APIResponse:      slack.APIResponse{OK: ok, Error: apiErr},
		Messages:         msgs,
		ResponseMetadata: slack.ResponseMetadata{NextCursor: nextCursor},
	}
}

func TestPurge_OwnershipAndSubtypeFilter(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(true, "", "",
				slack.Message{TS: "1.0", User: "U1", Text: "mine"},
				slack.Message{TS: "2.0", User: "U2", Text: "not mine"},
				slack.Message{TS: "3.0", User: "U1", Subtype: "channel_join"},
				slack.Message{TS: "4.0", User: "U1", Text: "also mine"},
			),
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 2, skipped)
	// Only owned, non-system messages are ever submitted for deletion
	assert.Equal(t, []string{"1.0", "4.0"}, api.deletedTS)
}

func TestPurge_CantDeleteSkippedSilently(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(true, "", "",
				slack.Message{TS: "1.0", User: "U1", Text: "too old"},
				slack.Message{TS: "2.0", User: "U1", Text: "fresh"},
			),
		},
		deleteByTS: map[string]*slack.DeleteResponse{
			"1.0": {APIResponse: slack.APIResponse{OK: false, Error: slack.ErrCantDeleteMessage}},
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, skipped)
}

func TestPurge_UnexpectedDeleteErrorCountedInNeitherBucket(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(true, "", "",
				slack.Message{TS: "1.0", User: "U1", Text: "cursed"},
			),
		},
		deleteByTS: map[string]*slack.DeleteResponse{
			"1.0": {APIResponse: slack.APIResponse{OK: false, Error: "message_not_found"}},
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	// An API-level rejection is advisory, not a pass failure
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, skipped)
}

func TestPurge_DeleteTransportErrorMarksPass(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(true, "", "",
				slack.Message{TS: "1.0", User: "U1", Text: "one"},
				slack.Message{TS: "2.0", User: "U1", Text: "two"},
			),
		},
		deleteErr: errors.New("connection reset"),
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	// Failed deletes land in neither bucket, the page keeps going, but the
	// pass is reported as incomplete
	require.Error(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, []string{"1.0", "2.0"}, api.deletedTS)
}

func TestPurge_Pagination(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(true, "", "next",
				slack.Message{TS: "1.0", User: "U1", Text: "first page"},
			),
			"next": page(true, "", "",
				slack.Message{TS: "2.0", User: "U1", Text: "second page"},
			),
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 2, api.historyCalls)
}

func TestPurge_EmptyPageStops(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			// Cursor present but no messages: loop must still stop
			"": page(true, "", "next"),
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 1, api.historyCalls)
}

func TestPurge_ChannelNotAccessible(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(false, slack.ErrChannelNotFound, ""),
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "gone", "U1")

	// Treated as exhausted, not fatal and not a pass failure
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, api.deletedTS)
}

func TestPurge_UnexpectedHistoryErrorStops(t *testing.T) {
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(false, "invalid_cursor", ""),
		},
	}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 1, api.historyCalls)
}

func TestPurge_TransportErrorReported(t *testing.T) {
	transportErr := errors.New("connection refused")
	api := &fakeAPI{historyErr: transportErr}
	purger := newTestPurger(t, api)

	deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")

	// Nothing was scanned, so the caller must not treat this pass as clean
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 0, skipped)
}

func TestPurge_Idempotent(t *testing.T) {
	// A conversation with no owned messages yields zero deletions every pass
	api := &fakeAPI{
		pages: map[string]*slack.HistoryResponse{
			"": page(true, "", "",
				slack.Message{TS: "1.0", User: "U2", Text: "foreign"},
			),
		},
	}
	purger := newTestPurger(t, api)

	for i := 0; i < 2; i++ {
		deleted, skipped, err := purger.Purge(context.Background(), "C1", "general", "U1")
		require.NoError(t, err, "pass %d", i+1)
		assert.Equal(t, 0, deleted, "pass %d", i+1)
		assert.Equal(t, 1, skipped, "pass %d", i+1)
	}
	assert.Empty(t, api.deletedTS)
}

func TestTruncatePreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short text unchanged", text: "hello", want: "hello"},
		{name: "exactly fifty runes", text: "01234567890123456789012345678901234567890123456789", want: "01234567890123456789012345678901234567890123456789"},
		{
			name: "long text truncated",
			text: "012345678901234567890123456789012345678901234567890",
			want: "01234567890123456789012345678901234567890123456789...",
		},
		{
			name: "multibyte runes not split",
			text: "привет мир привет мир привет мир привет мир привет мир",
			want: "привет мир привет мир привет мир привет мир привет...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncatePreview(tt.text))
		})
	}
}
