package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/calldesk/internal/domain"
)

type ChatRequest struct {
	PhoneNumber string
	UserText    string
	CallSID     string
}

// PostChat sends one user message to the assistant and returns its reply.
func (c *BackendClient) PostChat(ctx context.Context, req ChatRequest) (string, error) {
	body := map[string]string{
		"phone_number": req.PhoneNumber,
		"user_text":    req.UserText,
	}
	if req.CallSID != "" {
		body["call_sid"] = req.CallSID
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/chat", nil, body, &resp, "Failed to send"); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

type chatPoster interface {
	PostChat(ctx context.Context, req ChatRequest) (string, error)
}

// ChatService runs at most one chat request per key and lets the caller
// cancel it while it is in flight.
type ChatService struct {
	client  chatPoster
	timeout time.Duration

	mu       sync.Mutex
	inFlight map[int64]*chatCall
}

type chatCall struct {
	cancel context.CancelFunc
}

func NewChatService(client chatPoster, timeout time.Duration) *ChatService {
	return &ChatService{
		client:   client,
		timeout:  timeout,
		inFlight: make(map[int64]*chatCall),
	}
}

// Send posts req on behalf of key. It returns domain.ErrBusy when key already
// has a request in flight and context.Canceled when Cancel aborted it.
func (s *ChatService) Send(ctx context.Context, key int64, req ChatRequest) (string, error) {
	s.mu.Lock()
	if _, busy := s.inFlight[key]; busy {
		s.mu.Unlock()
		return "", domain.ErrBusy
	}
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	call := &chatCall{cancel: cancel}
	s.inFlight[key] = call
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inFlight[key] == call {
			delete(s.inFlight, key)
		}
		s.mu.Unlock()
		cancel()
	}()

	requestID := uuid.NewString()
	start := time.Now()
	reply, err := s.client.PostChat(reqCtx, req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.Canceled) {
			slog.Info("chat request cancelled", "request_id", requestID, "key", key)
			return "", context.Canceled
		}
		return "", err
	}
	slog.Debug("chat request done", "request_id", requestID, "key", key, "duration", time.Since(start))
	return reply, nil
}

// Cancel aborts the in-flight request for key, if any.
func (s *ChatService) Cancel(key int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	call, ok := s.inFlight[key]
	if !ok {
		return domain.ErrNothingInFlight
	}
	call.cancel()
	delete(s.inFlight, key)
	return nil
}

func (s *ChatService) Sending(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[key]
	return ok
}
