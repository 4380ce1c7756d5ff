package telegram_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/relay"
	"github.com/edgard/bridgebot/internal/telegram"
)

const testToken = "123456:TEST-token"

type upload struct {
	chatID   string
	caption  string
	filename string
	content  string
}

type fakeAPI struct {
	mu      sync.Mutex
	files   map[string][]byte
	uploads map[string]upload
	texts   []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{files: make(map[string][]byte), uploads: make(map[string]upload)}

	mux := http.NewServeMux()
	mux.HandleFunc("/bot"+testToken+"/getFile", func(w http.ResponseWriter, r *http.Request) {
		id := r.FormValue("file_id")
		api.mu.Lock()
		data, ok := api.files[id]
		api.mu.Unlock()
		if !ok {
			writeJSON(w, map[string]any{"ok": false, "error_code": 400, "description": "Bad Request: file not found"})
			return
		}
		writeJSON(w, map[string]any{"ok": true, "result": map[string]any{
			"file_id": id, "file_unique_id": "u-" + id, "file_size": len(data), "file_path": "media/" + id,
		}})
	})
	mux.HandleFunc("/file/bot"+testToken+"/media/", func(w http.ResponseWriter, r *http.Request) {
		id := filepath.Base(r.URL.Path)
		api.mu.Lock()
		data := api.files[id]
		api.mu.Unlock()
		_, _ = w.Write(data)
	})
	mux.HandleFunc("/bot"+testToken+"/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.texts = append(api.texts, r.FormValue("text"))
		api.mu.Unlock()
		writeMessage(w, r)
	})
	for _, method := range []string{"sendPhoto", "sendDocument", "sendVideoNote"} {
		field := map[string]string{"sendPhoto": "photo", "sendDocument": "document", "sendVideoNote": "video_note"}[method]
		mux.HandleFunc("/bot"+testToken+"/"+method, func(w http.ResponseWriter, r *http.Request) {
			f, hdr, err := r.FormFile(field)
			if err != nil {
				writeJSON(w, map[string]any{"ok": false, "error_code": 400, "description": "Bad Request: no file"})
				return
			}
			defer f.Close()
			data, _ := io.ReadAll(f)
			api.mu.Lock()
			api.uploads[method] = upload{
				chatID:   r.FormValue("chat_id"),
				caption:  r.FormValue("caption"),
				filename: hdr.Filename,
				content:  string(data),
			}
			api.mu.Unlock()
			writeMessage(w, r)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, r *http.Request) {
	chatID, _ := strconv.ParseInt(r.FormValue("chat_id"), 10, 64)
	writeJSON(w, map[string]any{"ok": true, "result": map[string]any{
		"message_id": 1, "date": 0, "chat": map[string]any{"id": chatID, "type": "group"},
	}})
}

func newClient(t *testing.T, srv *httptest.Server, opts ...telegram.ClientOption) *telegram.Client {
	t.Helper()
	b, err := telegram.NewBot(relay.PlatformBale, testToken, srv.URL, nil, bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("NewBot() error = %v", err)
	}
	opts = append([]telegram.ClientOption{telegram.WithHTTPClient(srv.Client())}, opts...)
	return telegram.NewClient(b, relay.PlatformBale, nil, opts...)
}

func TestClientDownload(t *testing.T) {
	t.Parallel()

	api, srv := newFakeAPI(t)
	api.files["doc1"] = []byte("hello file")
	c := newClient(t, srv)

	dst := filepath.Join(t.TempDir(), "doc1.bin")
	if err := c.Download(context.Background(), "doc1", dst); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "hello file" {
		t.Errorf("downloaded = %q, %v", got, err)
	}
}

func TestClientDownloadTooLarge(t *testing.T) {
	t.Parallel()

	api, srv := newFakeAPI(t)
	api.files["big"] = make([]byte, 64)
	c := newClient(t, srv, telegram.WithMaxFileSize(16))

	err := c.Download(context.Background(), "big", filepath.Join(t.TempDir(), "big"))
	if !errors.Is(err, telegram.ErrFileTooLarge) {
		t.Fatalf("Download() error = %v, want ErrFileTooLarge", err)
	}
}

func TestClientDownloadUnknownFile(t *testing.T) {
	t.Parallel()

	_, srv := newFakeAPI(t)
	c := newClient(t, srv)

	if err := c.Download(context.Background(), "missing", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("Download() error = nil for unknown file")
	}
}

func TestClientSends(t *testing.T) {
	t.Parallel()

	api, srv := newFakeAPI(t)
	c := newClient(t, srv)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "upload.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := relay.Payload{ChatID: -1009, Path: path, Filename: "sticker.png", Caption: "header"}

	if err := c.SendText(ctx, -1009, "plain"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if err := c.SendPhoto(ctx, p); err != nil {
		t.Fatalf("SendPhoto() error = %v", err)
	}
	if err := c.SendDocument(ctx, p); err != nil {
		t.Fatalf("SendDocument() error = %v", err)
	}
	if err := c.SendVideoNote(ctx, p); err != nil {
		t.Fatalf("SendVideoNote() error = %v", err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.texts) != 1 || api.texts[0] != "plain" {
		t.Errorf("texts = %v", api.texts)
	}
	for _, method := range []string{"sendPhoto", "sendDocument", "sendVideoNote"} {
		up, ok := api.uploads[method]
		if !ok {
			t.Errorf("%s not received", method)
			continue
		}
		if up.chatID != "-1009" || up.filename != "sticker.png" || up.content != "png-bytes" {
			t.Errorf("%s upload = %+v", method, up)
		}
	}
	if api.uploads["sendPhoto"].caption != "header" {
		t.Errorf("photo caption = %q", api.uploads["sendPhoto"].caption)
	}
}

func TestClientSendMissingFile(t *testing.T) {
	t.Parallel()

	_, srv := newFakeAPI(t)
	c := newClient(t, srv)

	err := c.SendDocument(context.Background(), relay.Payload{ChatID: 1, Path: filepath.Join(t.TempDir(), "gone")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("SendDocument() error = %v, want not-exist", err)
	}
}

func TestNewBotRequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := telegram.NewBot(relay.PlatformTelegram, "", "", nil); err == nil {
		t.Fatal("NewBot() with empty token error = nil")
	}
}

// newSlowServer answers every Bot API call with a message after delay.
func newSlowServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		writeMessage(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIRequestTimeouts(t *testing.T) {
	t.Parallel()

	const fallback = 30 * time.Millisecond
	srv := newSlowServer(t, 150*time.Millisecond)
	b, err := telegram.NewBot(relay.PlatformBale, testToken, srv.URL, nil,
		bot.WithSkipGetMe(), bot.WithHTTPClient(telegram.PollTimeout, telegram.NewAPIHTTPClient(fallback)))
	if err != nil {
		t.Fatalf("NewBot() error = %v", err)
	}
	c := telegram.NewClient(b, relay.PlatformBale, nil)

	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := relay.Payload{ChatID: -1009, Path: path, Filename: "clip.mp4"}

	tests := []struct {
		name     string
		deadline time.Duration
		wantErr  bool
	}{
		{name: "caller deadline longer than fallback", deadline: 5 * time.Second},
		{name: "caller deadline shorter than server", deadline: 20 * time.Millisecond, wantErr: true},
		{name: "no deadline uses fallback", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.deadline > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.deadline)
				defer cancel()
			}
			err := c.SendDocument(ctx, p)
			if (err != nil) != tt.wantErr {
				t.Errorf("SendDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBotHandlesUpdatesInOrder(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []int64
	)
	handler := func(_ context.Context, _ *bot.Bot, update *models.Update) {
		// Earlier updates take longer, so concurrent handling would reorder them.
		time.Sleep(time.Duration(10-update.ID%10) * time.Millisecond)
		mu.Lock()
		got = append(got, update.ID)
		mu.Unlock()
	}
	b, err := telegram.NewBot(relay.PlatformTelegram, testToken, "http://127.0.0.1:0", nil,
		bot.WithSkipGetMe(), bot.WithDefaultHandler(handler))
	if err != nil {
		t.Fatalf("NewBot() error = %v", err)
	}

	const n = 20
	for i := int64(1); i <= n; i++ {
		b.ProcessUpdate(context.Background(), &models.Update{ID: i})
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != n {
		t.Fatalf("handled %d updates when ProcessUpdate returned, want %d", len(got), n)
	}
	for i, id := range got {
		if id != int64(i+1) {
			t.Fatalf("handled order = %v", got)
		}
	}
}
