package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chapel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyConfigRepo serves configs from a mutable slot and can be switched
// into a failing mode mid-test.
type flakyConfigRepo struct {
	mu   sync.Mutex
	cfg  models.StreamConfig
	fail bool
}

func newFlakyConfigRepo(cfg models.StreamConfig) *flakyConfigRepo {
	return &flakyConfigRepo{cfg: cfg}
}

func (r *flakyConfigRepo) set(cfg models.StreamConfig) {
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

func (r *flakyConfigRepo) setFail(fail bool) {
	r.mu.Lock()
	r.fail = fail
	r.mu.Unlock()
}

func (r *flakyConfigRepo) Get(ctx context.Context) (*models.StreamConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errors.New("database unavailable")
	}
	cfg := r.cfg
	return &cfg, nil
}

func (r *flakyConfigRepo) Apply(ctx context.Context, patch models.StreamConfigPatch) (*models.StreamConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patch.Merge(&r.cfg)
	cfg := r.cfg
	return &cfg, nil
}

func (r *flakyConfigRepo) Reset(ctx context.Context) (*models.StreamConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = models.DefaultStreamConfig()
	cfg := r.cfg
	return &cfg, nil
}

// waitFor polls until cond is true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestViewerSession_PicksUpConfigChanges(t *testing.T) {
	repo := newFlakyConfigRepo(models.DefaultStreamConfig())
	sess := NewViewerSession(repo, nil, 5*time.Millisecond, 5*time.Millisecond)
	sess.Start(context.Background())
	defer sess.Stop()

	assert.Equal(t, RenderOffline, sess.Snapshot().RenderState)
	assert.Equal(t, "connecting", sess.Snapshot().ConnectionLabel)

	live := readyYouTubeConfig()
	live.UpdatedAt = time.Now()
	repo.set(live)

	waitFor(t, func() bool {
		return sess.Snapshot().RenderState == RenderReadyToPlay
	})
	assert.Equal(t, "dQw4w9WgXcQ", sess.Snapshot().Config.YouTubeVideoID)
}

func TestViewerSession_PlayRequiresReadyStream(t *testing.T) {
	repo := newFlakyConfigRepo(models.DefaultStreamConfig())
	sess := NewViewerSession(repo, nil, time.Hour, time.Hour)
	sess.Start(context.Background())
	defer sess.Stop()

	err := sess.Play()
	assert.ErrorIs(t, err, ErrStreamNotReady)
}

func TestViewerSession_ExplicitPlayThenTeardownIsTerminal(t *testing.T) {
	repo := newFlakyConfigRepo(readyYouTubeConfig())
	sess := NewViewerSession(repo, nil, 5*time.Millisecond, 5*time.Millisecond)
	sess.Start(context.Background())
	defer sess.Stop()

	// Ready never becomes playing on its own.
	assert.Equal(t, RenderReadyToPlay, sess.Snapshot().RenderState)

	require.NoError(t, sess.Play())
	assert.Equal(t, RenderPlaying, sess.Snapshot().RenderState)

	// Stream ends: the session drops to offline and stays there even after
	// the operator goes live again. Only a new session recovers.
	ended := readyYouTubeConfig()
	ended.IsLive = false
	ended.UpdatedAt = time.Now()
	repo.set(ended)
	waitFor(t, func() bool {
		return sess.Snapshot().RenderState == RenderOffline
	})

	relive := readyYouTubeConfig()
	relive.UpdatedAt = time.Now().Add(time.Second)
	repo.set(relive)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, RenderOffline, sess.Snapshot().RenderState)
	assert.ErrorIs(t, sess.Play(), ErrSessionTornDown)
}

func TestViewerSession_RetainsLastKnownGoodOnFailure(t *testing.T) {
	repo := newFlakyConfigRepo(readyYouTubeConfig())
	sess := NewViewerSession(repo, nil, 5*time.Millisecond, 5*time.Millisecond)
	sess.Start(context.Background())
	defer sess.Stop()

	assert.Equal(t, RenderReadyToPlay, sess.Snapshot().RenderState)

	repo.setFail(true)
	time.Sleep(30 * time.Millisecond)

	// Several failed cycles later the snapshot still holds the last good read.
	snap := sess.Snapshot()
	assert.Equal(t, RenderReadyToPlay, snap.RenderState)
	assert.Equal(t, "dQw4w9WgXcQ", snap.Config.YouTubeVideoID)

	// Recovery on the next successful cycle.
	ended := readyYouTubeConfig()
	ended.IsLive = false
	ended.UpdatedAt = time.Now()
	repo.set(ended)
	repo.setFail(false)
	waitFor(t, func() bool {
		return sess.Snapshot().RenderState == RenderOffline
	})
}

func TestViewerSession_StopFreezesSnapshot(t *testing.T) {
	repo := newFlakyConfigRepo(readyYouTubeConfig())
	sess := NewViewerSession(repo, nil, 5*time.Millisecond, 5*time.Millisecond)
	sess.Start(context.Background())

	assert.Equal(t, RenderReadyToPlay, sess.Snapshot().RenderState)
	sess.Stop()

	ended := readyYouTubeConfig()
	ended.IsLive = false
	ended.UpdatedAt = time.Now()
	repo.set(ended)
	time.Sleep(30 * time.Millisecond)

	// No loop is running; the snapshot no longer tracks the repo.
	assert.Equal(t, RenderReadyToPlay, sess.Snapshot().RenderState)
}

func TestSameMessageList(t *testing.T) {
	msg := func(id uint) *models.ChatMessage { return &models.ChatMessage{ID: id} }

	assert.True(t, sameMessageList(nil, nil))
	assert.True(t, sameMessageList(
		[]*models.ChatMessage{msg(1), msg(2)},
		[]*models.ChatMessage{msg(1), msg(2)}))
	assert.False(t, sameMessageList(
		[]*models.ChatMessage{msg(1)},
		[]*models.ChatMessage{msg(1), msg(2)}))

	// Approve one, delete one: same length, different contents.
	assert.False(t, sameMessageList(
		[]*models.ChatMessage{msg(1), msg(3)},
		[]*models.ChatMessage{msg(1), msg(2)}))
}

func TestViewerSession_IdleForTracksClientReads(t *testing.T) {
	repo := newFlakyConfigRepo(models.DefaultStreamConfig())
	sess := NewViewerSession(repo, nil, time.Hour, time.Hour)
	sess.Start(context.Background())
	defer sess.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, sess.IdleFor(), 15*time.Millisecond)

	// A snapshot read resets the clock.
	sess.Snapshot()
	assert.Less(t, sess.IdleFor(), 15*time.Millisecond)
}

func TestViewerSession_InitialFetchFailureFallsBackToDefaults(t *testing.T) {
	repo := newFlakyConfigRepo(readyYouTubeConfig())
	repo.setFail(true)

	sess := NewViewerSession(repo, nil, 5*time.Millisecond, 5*time.Millisecond)
	sess.Start(context.Background())
	defer sess.Stop()

	assert.Equal(t, RenderOffline, sess.Snapshot().RenderState)

	repo.setFail(false)
	waitFor(t, func() bool {
		return sess.Snapshot().RenderState == RenderReadyToPlay
	})
}
