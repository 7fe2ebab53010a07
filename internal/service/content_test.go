package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/calldesk/internal/domain"
)

func TestFAQRoutes(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": []map[string]string{{"question": "Hours?", "answer": "9-5"}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}, nil)
	ctx := context.Background()

	faqs, err := c.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Hours?", faqs[0].Question)

	require.NoError(t, c.CreateFAQ(ctx, "Where?", "Here"))
	require.NoError(t, c.UpdateFAQ(ctx, "Where?", "There"))
	require.NoError(t, c.DeleteFAQ(ctx, "Where is it?"))

	assert.Equal(t, []string{
		"GET /faqs",
		"POST /faq",
		"PUT /faq/Where?",
		"DELETE /faq/Where is it?",
	}, seen)
}

func TestTaskCreateSendsOnlySetFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "visit", "address": "Main st"}, body)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "item": body})
	}, nil)

	task, err := c.CreateTask(context.Background(), domain.Task{Name: "visit", Address: "Main st"})
	require.NoError(t, err)
	assert.Equal(t, "visit", task.Name)
}

func TestPromptRoundTrip(t *testing.T) {
	content := "be nice"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			content = body["content"]
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": "p1", "content": content})
	}, nil)
	ctx := context.Background()

	require.NoError(t, c.PutPrompt(ctx, "be brief"))
	p, err := c.GetPrompt(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.Prompt{ID: "p1", Content: "be brief"}, p)
}

func TestGetExtToolsMissingConfig(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}, nil)

	cfg, err := c.GetExtTools(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cfg.ExtTools)
	assert.Empty(t, cfg.ExtTools)
}
