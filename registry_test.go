package tidalbridge

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// spawnTracker observes session lifecycles across a registry test.
type spawnTracker struct {
	mu      sync.Mutex
	live    int
	maxLive int
	starts  int
	stops   int
}

func (tk *spawnTracker) started() {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	tk.starts++
	tk.live++

	if tk.live > tk.maxLive {
		tk.maxLive = tk.live
	}
}

func (tk *spawnTracker) stopped() {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	tk.stops++
	tk.live--
}

func (tk *spawnTracker) snapshot() (live, maxLive, starts, stops int) {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	return tk.live, tk.maxLive, tk.starts, tk.stops
}

// fakeSession is a Session double wired to a spawnTracker.
type fakeSession struct {
	tracker  *spawnTracker
	startErr error

	mu      sync.Mutex
	running bool
	sends   []string
}

var _ Session = (*fakeSession)(nil)

func (s *fakeSession) Start(context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	if s.tracker != nil {
		s.tracker.started()
	}

	return nil
}

func (s *fakeSession) Stop() error {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if wasRunning && s.tracker != nil {
		s.tracker.stopped()
	}

	return nil
}

func (s *fakeSession) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

func (s *fakeSession) Send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.sends = append(s.sends, line)

	return nil
}

func (s *fakeSession) ID() string { return "fake" }

func (s *fakeSession) sentLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.sends...)
}

// trackedRegistry builds a registry whose sessions are fakes on a tracker.
func trackedRegistry(tracker *spawnTracker, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.newSession = func() Session {
		return &fakeSession{tracker: tracker}
	}

	return r
}

func TestToggle_StartStopSymmetry(t *testing.T) {
	ctx := context.Background()
	tracker := &spawnTracker{}
	r := trackedRegistry(tracker)

	result, err := r.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ToggleStarted, result)
	require.NotNil(t, r.Current())

	result, err = r.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ToggleStopped, result)
	require.Nil(t, r.Current())

	// Exactly one spawn+stop cycle was observed.
	live, _, starts, stops := tracker.snapshot()
	require.Equal(t, 0, live)
	require.Equal(t, 1, starts)
	require.Equal(t, 1, stops)
}

func TestToggle_ConcurrentCallsNeverOverlapSessions(t *testing.T) {
	ctx := context.Background()
	tracker := &spawnTracker{}
	r := trackedRegistry(tracker)

	const toggles = 32

	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = r.Toggle(ctx)
		}()
	}

	wg.Wait()

	live, maxLive, starts, stops := tracker.snapshot()

	// At most one session was ever alive at a time.
	require.LessOrEqual(t, maxLive, 1)

	// Every toggle performed exactly one transition; the slot state is
	// consistent with the spawn/stop ledger.
	require.Equal(t, toggles, starts+stops)

	if r.Current() != nil {
		require.Equal(t, 1, live)
	} else {
		require.Equal(t, 0, live)
	}
}

func TestToggle_StartFailureLeavesSlotEmpty(t *testing.T) {
	ctx := context.Background()
	rec := &recordNotifier{}

	startErr := &SpawnError{Err: errors.New("exec format error")}

	r := NewRegistry(WithNotifier(rec))
	r.newSession = func() Session {
		return &fakeSession{startErr: startErr}
	}

	_, err := r.Toggle(ctx)
	require.Error(t, err)
	require.Nil(t, r.Current())

	// Reported through the notifier as well as returned.
	_, _, errs := rec.snapshot()
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], startErr)

	// A retry toggle is safe: swap in a healthy factory and go again.
	tracker := &spawnTracker{}
	r.newSession = func() Session {
		return &fakeSession{tracker: tracker}
	}

	result, err := r.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ToggleStarted, result)
}

func TestToggle_SupersedesDeadSession(t *testing.T) {
	ctx := context.Background()
	tracker := &spawnTracker{}
	r := trackedRegistry(tracker)

	_, err := r.Toggle(ctx)
	require.NoError(t, err)

	// Kill the session behind the registry's back, as a pump fault or an
	// interpreter crash would.
	dead := r.Current().(*fakeSession)
	dead.mu.Lock()
	dead.running = false
	dead.mu.Unlock()

	// The next toggle supersedes the stale handle with a fresh session
	// rather than reporting "stopped" for an already-dead interpreter.
	result, err := r.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ToggleStarted, result)
	require.NotSame(t, dead, r.Current())
}

func TestSendText_BlankFragmentsDropped(t *testing.T) {
	ctx := context.Background()
	tracker := &spawnTracker{}
	rec := &recordNotifier{}
	r := trackedRegistry(tracker, WithNotifier(rec))

	_, err := r.Toggle(ctx)
	require.NoError(t, err)

	before := rec.count()

	// Blank fragments produce zero writes and zero notifications.
	r.SendText("")
	r.SendText("   ")
	r.SendText("\n\t  \n")

	session := r.Current().(*fakeSession)
	require.Empty(t, session.sentLines())
	require.Equal(t, before, rec.count())
}

func TestSendText_NoActiveSession(t *testing.T) {
	rec := &recordNotifier{}
	r := NewRegistry(WithNotifier(rec))

	// No session: a silent no-op, not an error.
	r.SendText(`d1 $ sound "bd"`)
	require.Equal(t, 0, rec.count())
}

func TestHush_SendsLiteralCommand(t *testing.T) {
	ctx := context.Background()
	tracker := &spawnTracker{}
	r := trackedRegistry(tracker)

	_, err := r.Toggle(ctx)
	require.NoError(t, err)

	r.Hush()

	session := r.Current().(*fakeSession)
	require.Equal(t, []string{"hush"}, session.sentLines())
}

// TestRegistry_EndToEndScenario walks the full user flow over a fake
// transport: toggle on, send a pattern, hush, toggle off, send into void.
func TestRegistry_EndToEndScenario(t *testing.T) {
	ctx := context.Background()

	boot := writeBootFile(t, ":set prompt \"tidal> \"\nimport Sound.Tidal.Context\n")
	tr := newFakeTransport()

	r := NewRegistry(
		WithTransport(tr),
		WithBootFile(boot),
	)

	// Toggle on: spawns the interpreter and replays the boot file.
	result, err := r.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ToggleStarted, result)
	require.True(t, r.Current().IsRunning())

	bootBytes := ":set prompt \"tidal> \"\nimport Sound.Tidal.Context\n"
	require.Equal(t, bootBytes, tr.stdin.String())

	// A pattern goes out exactly as line + terminator.
	r.SendText(`d1 $ sound "bd"`)
	require.Equal(t, bootBytes+"d1 $ sound \"bd\"\n", tr.stdin.String())

	// Hush is the literal command.
	r.Hush()
	require.Equal(t, bootBytes+"d1 $ sound \"bd\"\nhush\n", tr.stdin.String())

	// Toggle off: terminates the interpreter.
	result, err = r.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ToggleStopped, result)
	require.Nil(t, r.Current())
	require.False(t, tr.Alive())

	// A following send is a no-op.
	before := tr.stdin.String()
	r.SendText(`d1 $ sound "sn"`)
	require.Equal(t, before, tr.stdin.String())
}
