package domain

import (
	"github.com/shopspring/decimal"
)

// Turn is one user/assistant exchange as stored by the backend.
type Turn struct {
	Timestamp     string `json:"ts"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	CallID        string `json:"call_sid,omitempty"`
	UserText      string `json:"user_text,omitempty"`
	AssistantText string `json:"assistant_text,omitempty"`
}

// TurnPage is one normalized page of turns plus the continuation token
// for the next page. An empty NextToken means there is nothing more to load.
type TurnPage struct {
	Turns     []Turn
	NextToken string
}

// Session is derived from the loaded turns and never stored.
type Session struct {
	Key              string
	PhoneNumber      string
	CallID           string // empty when the turns carry no call id
	LatestTimestamp  string
	TurnCount        int
	PreviewUser      string
	PreviewAssistant string
}

func (s *Session) HasCall() bool {
	return s.CallID != ""
}

// PhoneEntry is a phone number with the timestamp of its most recent turn.
// LatestTimestamp is nil when the lookup failed or returned nothing.
type PhoneEntry struct {
	Phone           string
	LatestTimestamp *string
}

type RecordingFormat string

const (
	RecordingMP3 RecordingFormat = "mp3"
	RecordingWAV RecordingFormat = "wav"
)

type RecordingRef struct {
	SID         string
	Duration    *decimal.Decimal // seconds
	Format      RecordingFormat
	DateCreated string
}

type LogEvent struct {
	TimestampMs int64  `json:"timestamp"`
	Message     string `json:"message"`
}

// Transcription is the backend's speech-to-text result for one recording.
type Transcription struct {
	Text     string
	Segments []TranscriptSegment
}

type TranscriptSegment struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Text  string   `json:"text,omitempty"`
}
