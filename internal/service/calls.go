package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
	"github.com/shopspring/decimal"
)

// TurnQuery selects a page of turns for one phone. From and To are ISO-8601
// strings; empty values leave the range open.
type TurnQuery struct {
	Phone     string
	From      string
	To        string
	Limit     int
	NextToken string
	Order     string // "" for the backend default, "desc" for newest first
}

// LogQuery selects event log lines in a bounded time window.
type LogQuery struct {
	StartMs int64
	Minutes int
	Limit   int
}

func (c *BackendClient) ListPhones(ctx context.Context) ([]string, error) {
	var resp struct {
		Phones []string `json:"phones"`
		Items  []string `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/phones", nil, nil, &resp, "Failed to load phones"); err != nil {
		return nil, err
	}
	if resp.Phones != nil {
		return resp.Phones, nil
	}
	if resp.Items != nil {
		return resp.Items, nil
	}
	return []string{}, nil
}

// ListTurns fetches one page of turns. The limit is clamped to the range the
// backend accepts before it is sent.
func (c *BackendClient) ListTurns(ctx context.Context, q TurnQuery) (*domain.TurnPage, error) {
	params := url.Values{}
	params.Set("phone", q.Phone)
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}
	params.Set("limit", strconv.Itoa(config.ClampLimit(q.Limit)))
	if q.NextToken != "" {
		params.Set("next_token", q.NextToken)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}

	var resp struct {
		Items     []domain.Turn `json:"items"`
		Calls     []domain.Turn `json:"calls"`
		NextToken string        `json:"next_token"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/calls", params, nil, &resp, "Failed to load calls"); err != nil {
		return nil, err
	}

	page := &domain.TurnPage{Turns: resp.Items, NextToken: resp.NextToken}
	if page.Turns == nil {
		page.Turns = resp.Calls
	}
	if page.Turns == nil {
		page.Turns = []domain.Turn{}
	}
	return page, nil
}

func (c *BackendClient) DeleteTurn(ctx context.Context, phone, ts string) error {
	params := url.Values{}
	params.Set("phone", phone)
	params.Set("ts", ts)
	return c.doJSON(ctx, http.MethodDelete, "/call", params, nil, nil, "Failed to delete turn")
}

// DeleteSession removes every turn of a call and returns how many the
// backend reports as deleted (zero when it does not say).
func (c *BackendClient) DeleteSession(ctx context.Context, callSID string) (int, error) {
	params := url.Values{}
	params.Set("call_sid", callSID)
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/call", params, nil, &resp, "Failed to delete session"); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

type recordingItem struct {
	SID         string `json:"sid"`
	Duration    string `json:"duration"`
	DateCreated string `json:"date_created"`
	MediaFormat string `json:"media_format"`
}

func (c *BackendClient) ListRecordings(ctx context.Context, callSID string) ([]domain.RecordingRef, error) {
	params := url.Values{}
	params.Set("call_sid", callSID)
	var resp struct {
		Items []recordingItem `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/recordings", params, nil, &resp, "Failed to load recordings"); err != nil {
		return nil, err
	}

	refs := make([]domain.RecordingRef, 0, len(resp.Items))
	for _, it := range resp.Items {
		refs = append(refs, toRecordingRef(it))
	}
	return refs, nil
}

func toRecordingRef(it recordingItem) domain.RecordingRef {
	ref := domain.RecordingRef{
		SID:         it.SID,
		Format:      domain.RecordingMP3,
		DateCreated: it.DateCreated,
	}
	if it.MediaFormat == string(domain.RecordingWAV) {
		ref.Format = domain.RecordingWAV
	}
	if it.Duration != "" {
		if d, err := decimal.NewFromString(it.Duration); err == nil {
			ref.Duration = &d
		}
	}
	return ref
}

// RecordingAudio downloads the audio bytes of one recording.
func (c *BackendClient) RecordingAudio(ctx context.Context, sid string, format domain.RecordingFormat) ([]byte, error) {
	if format == "" {
		format = domain.RecordingMP3
	}
	params := url.Values{}
	params.Set("format", string(format))
	req, err := c.newRequest(ctx, http.MethodGet, "/recording/"+url.PathEscape(sid), params, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// StreamRecording writes the audio bytes of one recording to w.
func (c *BackendClient) StreamRecording(ctx context.Context, sid string, format domain.RecordingFormat, w io.Writer) error {
	data, err := c.RecordingAudio(ctx, sid, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	return nil
}

func (c *BackendClient) Transcription(ctx context.Context, recordingSID string) (*domain.Transcription, error) {
	params := url.Values{}
	params.Set("recording_sid", recordingSID)
	params.Set("format", string(domain.RecordingMP3))
	var resp struct {
		Text     string                     `json:"text"`
		Segments []domain.TranscriptSegment `json:"segments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/transcription", params, nil, &resp, "Failed to transcribe"); err != nil {
		return nil, err
	}
	return &domain.Transcription{Text: resp.Text, Segments: resp.Segments}, nil
}

// FetchLogs returns event log lines in the window. Minutes above the
// backend maximum are capped.
func (c *BackendClient) FetchLogs(ctx context.Context, q LogQuery) ([]domain.LogEvent, error) {
	minutes := q.Minutes
	if minutes > config.LogMaxMinutes {
		minutes = config.LogMaxMinutes
	}
	if minutes < 1 {
		minutes = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = config.LogFetchLimit
	}

	params := url.Values{}
	params.Set("startTimeMs", strconv.FormatInt(q.StartMs, 10))
	params.Set("minutes", strconv.Itoa(minutes))
	params.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Items []domain.LogEvent `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat-logs", params, nil, &resp, "Failed to load logs"); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []domain.LogEvent{}, nil
	}
	return resp.Items, nil
}
