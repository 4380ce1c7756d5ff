package relay_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/edgard/bridgebot/internal/relay"
)

type fakeDownloader struct {
	mu    sync.Mutex
	data  []byte
	err   error
	block bool
	ids   []string
}

func (f *fakeDownloader) Download(ctx context.Context, fileID, dst string) error {
	f.mu.Lock()
	f.ids = append(f.ids, fileID)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, f.data, 0o600)
}

func (f *fakeDownloader) fileIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

type sentCall struct {
	method   string
	chatID   int64
	text     string
	payload  relay.Payload
	location relay.Location
	// content is what the upload path held while the send ran.
	content []byte
}

type fakeOutbound struct {
	mu     sync.Mutex
	calls  []sentCall
	failOn map[string]error
}

func (f *fakeOutbound) record(method string, call sentCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call.method = method
	if call.payload.Path != "" {
		call.content, _ = os.ReadFile(call.payload.Path)
	}
	f.calls = append(f.calls, call)
	if err, ok := f.failOn[method]; ok {
		return err
	}
	return nil
}

func (f *fakeOutbound) sent() []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCall(nil), f.calls...)
}

func (f *fakeOutbound) SendText(_ context.Context, chatID int64, text string) error {
	return f.record("text", sentCall{chatID: chatID, text: text})
}

func (f *fakeOutbound) SendPhoto(_ context.Context, p relay.Payload) error {
	return f.record("photo", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendVideo(_ context.Context, p relay.Payload) error {
	return f.record("video", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendVoice(_ context.Context, p relay.Payload) error {
	return f.record("voice", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendAudio(_ context.Context, p relay.Payload) error {
	return f.record("audio", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendAnimation(_ context.Context, p relay.Payload) error {
	return f.record("animation", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendDocument(_ context.Context, p relay.Payload) error {
	return f.record("document", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendVideoNote(_ context.Context, p relay.Payload) error {
	return f.record("video_note", sentCall{chatID: p.ChatID, payload: p})
}

func (f *fakeOutbound) SendLocation(_ context.Context, chatID int64, loc relay.Location) error {
	return f.record("location", sentCall{chatID: chatID, location: loc})
}

var errBoom = errors.New("boom")

// assertEmptyDir fails when dir still contains anything.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("leftover entry in work dir: %s", e.Name())
	}
}
