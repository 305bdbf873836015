// ABOUTME: Shared test doubles for the widget package
// ABOUTME: Fake backend with call counting, error injection, and blocking sends

package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emberhq/ember-widget/internal/backend"
	"github.com/emberhq/ember-widget/internal/storage"
)

// fakeBackend implements Backend and SettingsFetcher for tests
type fakeBackend struct {
	mu sync.Mutex

	settings    *backend.WidgetSettings
	settingsErr error

	history    []backend.HistoryRecord
	historyErr error

	sendResult *backend.SendResult
	sendErr    error

	// blockSend, when non-nil, makes SendMessage wait until it is closed
	blockSend chan struct{}

	settingsCalls int
	historyCalls  int
	sendCalls     int

	lastSessionID *string
	lastQuery     string
}

func (f *fakeBackend) GetWidgetSettings(ctx context.Context, agentID string) (*backend.WidgetSettings, error) {
	f.mu.Lock()
	f.settingsCalls++
	f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeBackend) GetMessages(ctx context.Context, agentID, userID, sessionID string) ([]backend.HistoryRecord, error) {
	f.mu.Lock()
	f.historyCalls++
	f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, agentID string, sessionID *string, userID, query string) (*backend.SendResult, error) {
	f.mu.Lock()
	f.sendCalls++
	f.lastSessionID = sessionID
	f.lastQuery = query
	block := f.blockSend
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.sendResult, nil
}

func (f *fakeBackend) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls
}

func testSettings() *Settings {
	return &Settings{
		AgentID:        "a1",
		DisplayName:    "Support Bot",
		InitialMessage: "Hi there!",
		Theme:          "light",
	}
}

func newTestConversation(t *testing.T, kv storage.KV, be Backend) *Conversation {
	t.Helper()
	return NewConversation(kv, be, "visitor-1", "a1", "user-1", "Hi! How can I help you today?", nil)
}

func historyPairs(n int) []backend.HistoryRecord {
	base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	records := make([]backend.HistoryRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, backend.HistoryRecord{
			ID:           "h" + string(rune('1'+i)),
			HumanMessage: "question",
			AIMessage:    "answer",
			DateTime:     base.Add(time.Duration(i) * time.Minute),
		})
	}
	return records
}

func requireSessionStored(t *testing.T, kv storage.KV, visitorID, agentID, want string) {
	t.Helper()
	got, err := kv.Get(context.Background(), storage.SessionKey(visitorID, agentID))
	require.NoError(t, err)
	require.Equal(t, want, got)
}
