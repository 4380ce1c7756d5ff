package report

import (
	"sync"
	"testing"
	"time"

	"github.com/edgard/bridgebot/internal/relay"
)

func TestStoreLifecycle(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	key := Key{Platform: relay.PlatformTelegram, ChatID: 1}

	if s.Begin(key, 10) {
		t.Error("first Begin reported a restart")
	}
	if !s.Begin(key, 11) {
		t.Error("second Begin did not report a restart")
	}

	sess, ok := s.Take(key)
	if !ok || sess.UserID != 11 || !sess.StartedAt.Equal(fixed) {
		t.Fatalf("Take() = %+v, %v", sess, ok)
	}
	if _, ok := s.Take(key); ok {
		t.Error("session taken twice")
	}
	if s.Cancel(key) {
		t.Error("Cancel() on empty key returned true")
	}
}

func TestStoreLockSerializesKey(t *testing.T) {
	t.Parallel()

	s := NewStore()
	key := Key{Platform: relay.PlatformBale, ChatID: 2}

	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(key)
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.locks) != 0 {
		t.Errorf("idle key locks retained: %d", len(s.locks))
	}
}
