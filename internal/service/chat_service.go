package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"chapel/internal/cache"
	"chapel/internal/models"
	"chapel/internal/observability"
	"chapel/internal/repository"
)

// ChatService implements the internal chat path: session-scoped posting
// with the policy filter pipeline, plus the operator moderation queue.
//
// Filters run in a fixed order, cheapest first: length, then blocked
// words, then the stateful slow-mode check. A message that trips an early
// filter must not consume the sender's slow-mode window.
type ChatService struct {
	chatRepo   repository.ChatRepository
	configRepo repository.StreamConfigRepository
	rdb        *redis.Client

	// in-memory slow-mode and welcome state, used when Redis is absent
	mu        sync.Mutex
	lastPost  map[string]time.Time
	welcomed  map[string]bool
	sweepMark time.Time
}

// NewChatService creates a new chat service. rdb may be nil; slow mode and
// welcome tracking then fall back to process-local state.
func NewChatService(chatRepo repository.ChatRepository, configRepo repository.StreamConfigRepository, rdb *redis.Client) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		configRepo: configRepo,
		rdb:        rdb,
		lastPost:   make(map[string]time.Time),
		welcomed:   make(map[string]bool),
		sweepMark:  time.Now(),
	}
}

// PostResult is the outcome of a post attempt. Reason is empty when the
// message was accepted; Pending is true when it awaits operator approval.
type PostResult struct {
	Message *models.ChatMessage     `json:"message,omitempty"`
	Reason  models.ChatRejectReason `json:"reason,omitempty"`
	Pending bool                    `json:"pending,omitempty"`
}

// PostMessage runs the filter pipeline and stores the message. userID is
// nil for guests.
func (s *ChatService) PostMessage(ctx context.Context, sessionID string, userID *uint, displayName, content string) (*PostResult, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ChatService", "PostMessage")
	defer span.End()

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	policy := cfg.Chat

	if !policy.Enabled || policy.Source == models.ChatSourceYouTubeEmbed || policy.Source == models.ChatSourceYouTubeAPI {
		return s.reject(models.ChatRejectDisabled), nil
	}
	if userID == nil && !policy.AllowGuestComments {
		return s.reject(models.ChatRejectGuestDenied), nil
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if utf8.RuneCountInString(content) > policy.MaxMessageLength {
		return s.reject(models.ChatRejectTooLong), nil
	}
	if word := firstBlockedWord(content, policy.BlockedWords); word != "" {
		slog.InfoContext(ctx, "Chat message blocked", "session_id", sessionID, "word", word)
		return s.reject(models.ChatRejectBlockedWord), nil
	}
	if policy.SlowModeSeconds > 0 {
		ok, err := s.claimSlowModeSlot(ctx, sessionID, time.Duration(policy.SlowModeSeconds)*time.Second)
		if err != nil {
			slog.WarnContext(ctx, "Slow mode check failed, allowing message", "error", err)
		} else if !ok {
			return s.reject(models.ChatRejectSlowMode), nil
		}
	}

	msg := &models.ChatMessage{
		SessionID:   sessionID,
		UserID:      userID,
		DisplayName: displayName,
		Content:     content,
		Approved:    policy.ApprovalMode == models.ApprovalAuto,
	}
	if msg.DisplayName == "" {
		msg.DisplayName = "Guest"
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ChatMessagesAccepted.Inc()
	return &PostResult{Message: msg, Pending: !msg.Approved}, nil
}

func (s *ChatService) reject(reason models.ChatRejectReason) *PostResult {
	observability.ChatMessagesRejected.WithLabelValues(string(reason)).Inc()
	return &PostResult{Reason: reason}
}

// firstBlockedWord returns the first configured word found in content.
// Matching is case-insensitive substring; the stored list is already
// lowercased on write.
func firstBlockedWord(content string, blocked []string) string {
	lower := strings.ToLower(content)
	for _, w := range blocked {
		if w != "" && strings.Contains(lower, w) {
			return w
		}
	}
	return ""
}

// claimSlowModeSlot atomically claims the sender's posting slot. It returns
// false when the previous slot has not expired. Redis makes the window
// survive restarts and multiple instances; the in-memory map is the
// single-instance fallback.
func (s *ChatService) claimSlowModeSlot(ctx context.Context, sessionID string, window time.Duration) (bool, error) {
	key := cache.SlowModeKey(sessionID)
	if s.rdb != nil {
		return s.rdb.SetNX(ctx, key, "1", window).Result()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.sweepLocked(now)
	if last, ok := s.lastPost[sessionID]; ok && now.Sub(last) < window {
		return false, nil
	}
	s.lastPost[sessionID] = now
	return true, nil
}

// sweepLocked drops stale in-memory slow-mode entries once a minute so the
// map does not grow with every session ever seen. Caller holds mu.
func (s *ChatService) sweepLocked(now time.Time) {
	if now.Sub(s.sweepMark) < time.Minute {
		return
	}
	s.sweepMark = now
	for id, last := range s.lastPost {
		if now.Sub(last) > time.Hour {
			delete(s.lastPost, id)
		}
	}
}

// WelcomeFor returns the configured welcome message the first time a
// session asks for it, and empty thereafter. Sessions are remembered for a
// day; a restarted process without Redis greets again, which is harmless.
func (s *ChatService) WelcomeFor(ctx context.Context, sessionID string) (string, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if cfg.Chat.WelcomeMessage == "" {
		return "", nil
	}

	key := cache.WelcomeKey(sessionID)
	if s.rdb != nil {
		first, err := s.rdb.SetNX(ctx, key, "1", 24*time.Hour).Result()
		if err != nil {
			slog.WarnContext(ctx, "Welcome tracking failed", "error", err)
			return "", nil
		}
		if !first {
			return "", nil
		}
		return cfg.Chat.WelcomeMessage, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.welcomed[sessionID] {
		return "", nil
	}
	s.welcomed[sessionID] = true
	return cfg.Chat.WelcomeMessage, nil
}

// Messages returns the approved messages viewers poll for, oldest first.
func (s *ChatService) Messages(ctx context.Context, limit, offset int) ([]*models.ChatMessage, error) {
	msgs, err := s.chatRepo.GetApprovedMessages(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// PendingMessages returns the operator moderation queue, oldest first.
func (s *ChatService) PendingMessages(ctx context.Context, limit, offset int) ([]*models.ChatMessage, error) {
	msgs, err := s.chatRepo.GetPendingMessages(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// ApproveMessage releases a pending message to viewers.
func (s *ChatService) ApproveMessage(ctx context.Context, id uint) error {
	if _, err := s.chatRepo.GetMessageByID(ctx, id); err != nil {
		return models.NewNotFoundError("chat message", id)
	}
	if err := s.chatRepo.ApproveMessage(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteMessage removes a message from the queue or the visible stream.
func (s *ChatService) DeleteMessage(ctx context.Context, id uint) error {
	if _, err := s.chatRepo.GetMessageByID(ctx, id); err != nil {
		return models.NewNotFoundError("chat message", id)
	}
	if err := s.chatRepo.DeleteMessage(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
