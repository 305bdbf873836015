// ABOUTME: Tests for the backend API client against httptest servers
// ABOUTME: Verifies wire formats, query parameters, and error mapping

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWidgetSettings_DecodesWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/widget/config/a1", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"is_public": true,
			"display_name": "Support Bot",
			"initial_message": "Hi there!",
			"suggested_questions": "What are your hours?\n\nWhere are you located?",
			"message_placeholder": "Ask me anything",
			"theme": "dark",
			"bubble_alignment": "right",
			"primary_color": "#ff6600"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	settings, err := c.GetWidgetSettings(context.Background(), "a1")
	require.NoError(t, err)

	assert.True(t, settings.IsPublic)
	assert.Equal(t, "Support Bot", settings.DisplayName)
	assert.Equal(t, "Hi there!", settings.InitialMessage)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "right", settings.BubbleAlignment)
	assert.Equal(t, "#ff6600", settings.PrimaryColor)
}

func TestGetWidgetSettings_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such agent", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.GetWidgetSettings(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMessages_SendsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/messages/a1", r.URL.Path)
		assert.Equal(t, "u-9", r.URL.Query().Get("user"))
		assert.Equal(t, "s-7", r.URL.Query().Get("session_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"m1","human_message":"Hello","ai_message":"Hi!","date_time":"2026-01-02T15:04:05Z"},
			{"id":"m2","human_message":"Hours?","ai_message":"9-5","date_time":"2026-01-02T15:05:05Z"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	records, err := c.GetMessages(context.Background(), "a1", "u-9", "s-7")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Hello", records[0].HumanMessage)
	assert.Equal(t, "Hi!", records[0].AIMessage)
	assert.Equal(t, 2026, records[0].DateTime.Year())
}

func TestSendMessage_FirstExchangeOmitsSessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/a1", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasSession := body["session_id"]
		assert.False(t, hasSession, "nil session_id must be omitted")
		assert.Equal(t, "u-9", body["user_uid"])
		assert.Equal(t, "What are your hours?", body["query"])
		assert.Equal(t, false, body["stream"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"m3","session_id":"s-new","ai_message":"We open at 9.","date_time":"2026-01-02T15:06:05Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	result, err := c.SendMessage(context.Background(), "a1", nil, "u-9", "What are your hours?")
	require.NoError(t, err)

	assert.Equal(t, "s-new", result.SessionID)
	assert.Equal(t, "We open at 9.", result.AIMessage)
}

func TestSendMessage_ExistingSessionIncluded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s-7", body["session_id"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"m4","session_id":"s-7","ai_message":"Sure.","date_time":"2026-01-02T15:07:05Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	sid := "s-7"
	result, err := c.SendMessage(context.Background(), "a1", &sid, "u-9", "Thanks")
	require.NoError(t, err)
	assert.Equal(t, "s-7", result.SessionID)
}

func TestSendMessage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.SendMessage(context.Background(), "a1", nil, "u-9", "hi")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
}

func TestListSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/sessions/a1", r.URL.Path)
		assert.Equal(t, "u-9", r.URL.Query().Get("user"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"session_id":"s-7","input":"What are your hours?","created_at":"2026-01-01T10:00:00Z"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	sessions, err := c.ListSessions(context.Background(), "a1", "u-9")
	require.NoError(t, err)

	require.Len(t, sessions, 1)
	assert.Equal(t, "s-7", sessions[0].SessionID)
	assert.Equal(t, "What are your hours?", sessions[0].Input)
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetWidgetSettings(ctx, "a1")
	assert.Error(t, err)
}
