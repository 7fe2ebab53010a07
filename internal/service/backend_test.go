package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/calldesk/internal/domain"
)

type staticToken struct {
	token string
	err   error
}

func (s staticToken) BearerToken() (string, error) { return s.token, s.err }

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) *BackendClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewBackendClientWith(srv.URL+"/", srv.Client(), tokens)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBackendNotConfigured(t *testing.T) {
	c := NewBackendClientWith("", http.DefaultClient, nil)
	assert.False(t, c.Configured())

	_, err := c.ListPhones(context.Background())
	assert.ErrorIs(t, err, domain.ErrAPIBaseNotConfigured)
}

func TestBackendHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"ok":false,"error":"phone required"}`, "phone required"},
		{"no body", http.StatusInternalServerError, ``, "HTTP 500"},
		{"non json", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, nil)

			_, err := c.ListPhones(context.Background())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.message, ErrorMessage(err))
		})
	}
}

func TestBackendPayloadError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false})
	}, nil)

	_, err := c.ListRecordings(context.Background(), "CA1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "Failed to load recordings", apiErr.Message)
}

func TestBackendBearerToken(t *testing.T) {
	var got []string
	h := func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "phones": []string{}})
	}

	c := newTestClient(t, h, staticToken{token: "secret"})
	_, err := c.ListPhones(context.Background())
	require.NoError(t, err)

	c = newTestClient(t, h, staticToken{err: errors.New("identity down")})
	_, err = c.ListPhones(context.Background())
	require.NoError(t, err)

	c = newTestClient(t, h, nil)
	_, err = c.ListPhones(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer secret", "", ""}, got)
}

func TestListPhonesNormalizes(t *testing.T) {
	for _, body := range []map[string]any{
		{"ok": true, "phones": []string{"+1", "+2"}},
		{"ok": true, "items": []string{"+1", "+2"}},
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/phones", r.URL.Path)
			writeJSON(w, http.StatusOK, body)
		}, nil)
		phones, err := c.ListPhones(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"+1", "+2"}, phones)
	}
}

func TestListTurnsQueryAndNormalization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/calls", r.URL.Path)
		assert.Equal(t, "+15551234567", q.Get("phone"))
		assert.Equal(t, "1000", q.Get("limit"))
		assert.Equal(t, "tok", q.Get("next_token"))
		assert.Equal(t, "2024-01-01T00:00:00+00:00", q.Get("from"))
		assert.False(t, q.Has("to"))
		assert.False(t, q.Has("order"))
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":         true,
			"calls":      []map[string]string{{"ts": "2024-01-01T10:00:00Z", "call_sid": "A", "user_text": "hi"}},
			"next_token": "tok2",
		})
	}, nil)

	page, err := c.ListTurns(context.Background(), TurnQuery{
		Phone:     "+15551234567",
		From:      "2024-01-01T00:00:00+00:00",
		Limit:     5000,
		NextToken: "tok",
	})
	require.NoError(t, err)
	require.Len(t, page.Turns, 1)
	assert.Equal(t, domain.Turn{Timestamp: "2024-01-01T10:00:00Z", CallID: "A", UserText: "hi"}, page.Turns[0])
	assert.Equal(t, "tok2", page.NextToken)
}

func TestListTurnsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}, nil)

	page, err := c.ListTurns(context.Background(), TurnQuery{Phone: "+1", Limit: -3, Order: "desc"})
	require.NoError(t, err)
	assert.NotNil(t, page.Turns)
	assert.Empty(t, page.Turns)
	assert.Empty(t, page.NextToken)
}

func TestDeleteCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/call", r.URL.Path)
		q := r.URL.Query()
		if q.Has("call_sid") {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": 4})
			return
		}
		assert.Equal(t, "+1", q.Get("phone"))
		assert.Equal(t, "2024-01-01T09:00:00Z", q.Get("ts"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}, nil)

	require.NoError(t, c.DeleteTurn(context.Background(), "+1", "2024-01-01T09:00:00Z"))
	n, err := c.DeleteSession(context.Background(), "CA1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestListRecordings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CA1", r.URL.Query().Get("call_sid"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": []map[string]string{
			{"sid": "RE1", "duration": "12.5", "media_format": "wav"},
			{"sid": "RE2", "duration": "n/a"},
		}})
	}, nil)

	refs, err := c.ListRecordings(context.Background(), "CA1")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, domain.RecordingWAV, refs[0].Format)
	require.NotNil(t, refs[0].Duration)
	assert.Equal(t, "12.5", refs[0].Duration.String())
	assert.Equal(t, domain.RecordingMP3, refs[1].Format)
	assert.Nil(t, refs[1].Duration)
}

func TestRecordingAudio(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recording/RE1", r.URL.Path)
		assert.Equal(t, "mp3", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("ID3"))
	}, nil)

	data, err := c.RecordingAudio(context.Background(), "RE1", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), data)
}

func TestFetchLogsCapsMinutes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/chat-logs", r.URL.Path)
		assert.Equal(t, "1000", q.Get("startTimeMs"))
		assert.Equal(t, "60", q.Get("minutes"))
		assert.Equal(t, "200", q.Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": []map[string]any{{"timestamp": 1500, "message": "hello"}}})
	}, nil)

	events, err := c.FetchLogs(context.Background(), LogQuery{StartMs: 1000, Minutes: 240})
	require.NoError(t, err)
	assert.Equal(t, []domain.LogEvent{{TimestampMs: 1500, Message: "hello"}}, events)
}

func TestPostChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"phone_number": "+1", "user_text": "hi"}, body)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "reply": "hello"})
	}, nil)

	reply, err := c.PostChat(context.Background(), ChatRequest{PhoneNumber: "+1", UserText: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}
