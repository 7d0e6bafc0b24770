package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"chapel/internal/models"
	"chapel/internal/observability"
	"chapel/internal/repository"
)

// ErrSessionTornDown is returned by Play after the session has been torn
// down. A torn-down session stays offline until a fresh session replaces it.
var ErrSessionTornDown = errors.New("viewer session torn down")

// ErrStreamNotReady is returned by Play when the last known config does not
// permit playback.
var ErrStreamNotReady = errors.New("stream not ready")

// ViewerSnapshot is the session's last known good view of the world,
// returned to the polling client as one unit.
type ViewerSnapshot struct {
	Config      models.StreamConfig   `json:"config"`
	RenderState RenderState           `json:"render_state"`
	ChatSurface ChatSurface           `json:"chat_surface"`
	Messages    []*models.ChatMessage `json:"messages"`
	// "connecting" for the first moments after open, then "connected".
	// Cosmetic only; it never affects the render state.
	ConnectionLabel string    `json:"connection_label"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ViewerSession is the server-side companion of one open viewer page. It
// runs two independent poll loops, config and chat, each on its own
// interval, and holds the last known good snapshot between cycles.
//
// A failed cycle never blanks the snapshot; the previous state is retained
// and the next tick retries. Stop tears both loops down and discards any
// cycle still in flight.
type ViewerSession struct {
	configRepo  repository.StreamConfigRepository
	chatService *ChatService

	configInterval time.Duration
	chatInterval   time.Duration

	configLog *observability.PollLogger
	chatLog   *observability.PollLogger

	mu        sync.RWMutex
	config    models.StreamConfig
	messages  []*models.ChatMessage
	playing   bool
	tornDown  bool
	updated   time.Time
	startedAt time.Time

	// unix nanos of the most recent client read or action; the server's
	// reaper closes sessions whose client stopped polling
	lastSeen atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewViewerSession creates a session. chatService may be nil when the chat
// surface is external-only; the chat loop is then never started.
func NewViewerSession(configRepo repository.StreamConfigRepository, chatService *ChatService, configInterval, chatInterval time.Duration) *ViewerSession {
	return &ViewerSession{
		configRepo:     configRepo,
		chatService:    chatService,
		configInterval: configInterval,
		chatInterval:   chatInterval,
		configLog:      observability.NewPollLogger("config"),
		chatLog:        observability.NewPollLogger("chat"),
		config:         models.DefaultStreamConfig(),
	}
}

// Start performs the initial config fetch synchronously, then launches the
// poll loops. The initial fetch tolerates failure the same way a cycle
// does: the session starts from defaults and the first tick retries.
func (s *ViewerSession) Start(ctx context.Context) {
	s.touch()
	s.mu.Lock()
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.pollConfigOnce(ctx)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx, s.configInterval, s.configLog, s.pollConfigOnce)
	if s.chatService != nil {
		s.wg.Add(1)
		go s.runLoop(ctx, s.chatInterval, s.chatLog, s.pollChatOnce)
	}
}

// Stop cancels both loops and waits for them to exit. Results of cycles
// already in flight are discarded; the snapshot no longer changes.
func (s *ViewerSession) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *ViewerSession) runLoop(ctx context.Context, interval time.Duration, log *observability.PollLogger, poll func(context.Context)) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.LogStopped(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			poll(ctx)
		}
	}
}

func (s *ViewerSession) pollConfigOnce(ctx context.Context) {
	cfg, err := s.configRepo.Get(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		observability.PollCycles.WithLabelValues("config", "error").Inc()
		s.configLog.LogRetained(ctx, err)
		return
	}
	observability.PollCycles.WithLabelValues("config", "ok").Inc()

	s.mu.Lock()
	changed := !cfg.UpdatedAt.Equal(s.config.UpdatedAt)
	wasReady := s.config.StreamReady()
	s.config = *cfg
	if wasReady && !cfg.StreamReady() && s.playing {
		// stream ended under an active player: tear down for good
		s.playing = false
		s.tornDown = true
	}
	s.updated = time.Now()
	observability.RenderStateGauge.Set(renderStateValue(DeriveRenderState(s.config, s.playing)))
	s.mu.Unlock()

	s.configLog.LogCycle(ctx, changed)
}

func (s *ViewerSession) pollChatOnce(ctx context.Context) {
	s.mu.RLock()
	surface := DeriveChatSurface(s.config.Chat)
	s.mu.RUnlock()
	if surface != ChatSurfaceInternal && surface != ChatSurfaceCombined {
		return
	}

	msgs, err := s.chatService.Messages(ctx, 100, 0)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		observability.PollCycles.WithLabelValues("chat", "error").Inc()
		s.chatLog.LogRetained(ctx, err)
		return
	}
	observability.PollCycles.WithLabelValues("chat", "ok").Inc()

	s.mu.Lock()
	changed := !sameMessageList(msgs, s.messages)
	s.messages = msgs
	s.mu.Unlock()

	s.chatLog.LogCycle(ctx, changed)
}

// sameMessageList reports whether both lists hold the same messages in the
// same order. Moderation between polls can approve one message and delete
// another without changing the length, so identity is compared per entry.
func sameMessageList(a, b []*models.ChatMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// Play records the viewer's explicit play action. Playback never starts on
// its own; this is the only way into the playing state.
func (s *ViewerSession) Play() error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tornDown {
		return ErrSessionTornDown
	}
	if !s.config.StreamReady() {
		return ErrStreamNotReady
	}
	s.playing = true
	observability.RenderStateGauge.Set(renderStateValue(RenderPlaying))
	return nil
}

func (s *ViewerSession) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// IdleFor reports how long ago a client last opened, read, or acted on the
// session. Poll loop activity does not count; only client traffic does.
func (s *ViewerSession) IdleFor() time.Duration {
	last := s.lastSeen.Load()
	if last == 0 {
		return 0
	}
	return time.Since(time.Unix(0, last))
}

// Snapshot returns the current last known good state.
func (s *ViewerSession) Snapshot() ViewerSnapshot {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := DeriveRenderState(s.config, s.playing)
	if s.tornDown {
		state = RenderOffline
	}
	label := "connected"
	if s.startedAt.IsZero() || time.Since(s.startedAt) < ConnectionLabelDelay {
		label = "connecting"
	}

	msgs := make([]*models.ChatMessage, len(s.messages))
	copy(msgs, s.messages)
	return ViewerSnapshot{
		Config:          s.config,
		RenderState:     state,
		ChatSurface:     DeriveChatSurface(s.config.Chat),
		Messages:        msgs,
		ConnectionLabel: label,
		UpdatedAt:       s.updated,
	}
}

func renderStateValue(state RenderState) float64 {
	switch state {
	case RenderPlaying:
		return 2
	case RenderReadyToPlay:
		return 1
	}
	return 0
}
