package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/carta/core/config"
	tg "github.com/m3rciful/carta/core/telegram"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/session"
	"github.com/m3rciful/carta/internal/storage/document"
)

const (
	adminID    int64 = 42
	strangerID int64 = 7
)

type botCall struct {
	Method string
	Body   map[string]any
}

func (c botCall) text() string { return fmt.Sprint(c.Body["text"]) }

func (c botCall) chatID() string { return fmt.Sprint(c.Body["chat_id"]) }

func (c botCall) markup(t *testing.T) tele.ReplyMarkup {
	t.Helper()
	var rm tele.ReplyMarkup
	raw, ok := c.Body["reply_markup"].(string)
	if !ok {
		return rm
	}
	if err := json.Unmarshal([]byte(raw), &rm); err != nil {
		t.Fatalf("reply_markup: %v", err)
	}
	return rm
}

func (c botCall) buttons(t *testing.T) []tele.InlineButton {
	var out []tele.InlineButton
	for _, row := range c.markup(t).InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

// fakeBotAPI records every Bot API request and answers like Telegram would.
type fakeBotAPI struct {
	mu    sync.Mutex
	calls []botCall
}

func newFakeBotAPI(t *testing.T) (*fakeBotAPI, *httptest.Server) {
	t.Helper()
	api := &fakeBotAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := path.Base(r.URL.Path)
		body := map[string]any{}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}
		api.mu.Lock()
		api.calls = append(api.calls, botCall{Method: method, Body: body})
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "answerCallbackQuery":
			_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
		default:
			chat := fmt.Sprint(body["chat_id"])
			if chat == "<nil>" || chat == "" {
				chat = "0"
			}
			_, _ = fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"chat":{"id":%s,"type":"private"},"date":0}}`, chat)
		}
	}))
	t.Cleanup(srv.Close)
	return api, srv
}

// take returns the calls recorded since the previous take.
func (a *fakeBotAPI) take() []botCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.calls
	a.calls = nil
	return out
}

type harnessOptions struct {
	adminID int64
	backend string
	wrap    func(catalog.Repository) catalog.Repository
}

type harness struct {
	t        *testing.T
	api      *fakeBotAPI
	rt       *tg.Runtime
	repo     catalog.Repository
	path     string
	sessions *session.MemoryStore
	nextID   int
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("..", "catalog", "testdata", "menu.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	file := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(file, src, 0o644); err != nil {
		t.Fatal(err)
	}
	var repo catalog.Repository = document.NewRepository(document.NewFileStore(file))
	if opts.wrap != nil {
		repo = opts.wrap(repo)
	}
	backend := opts.backend
	if backend == "" {
		backend = BackendFile
	}

	sessions := session.NewMemoryStore(0)
	engine, err := New(Options{Repository: repo, Sessions: sessions, Backend: backend, AdminID: opts.adminID})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	reg := tg.NewRegistry()
	routes, err := engine.Routes(reg, nil)
	if err != nil {
		t.Fatalf("routes: %v", err)
	}

	api, srv := newFakeBotAPI(t)
	cfg := &coreconfig.Config{Telegram: coreconfig.TelegramConfig{
		Token:   "123:TEST",
		APIURL:  srv.URL,
		RunMode: coreconfig.RunModeWebhook,
	}}
	rt, err := tg.NewRuntime(tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(),
		Routes:      routes,
		Client:      srv.Client(),
		Offline:     true,
	})
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	return &harness{t: t, api: api, rt: rt, repo: repo, path: file, sessions: sessions}
}

func (h *harness) press(from int64, data string) []botCall {
	h.nextID++
	h.rt.ProcessUpdate(tele.Update{
		ID: h.nextID,
		Callback: &tele.Callback{
			ID:      strconv.Itoa(h.nextID),
			Data:    data,
			Sender:  &tele.User{ID: from},
			Message: &tele.Message{ID: 500, Chat: &tele.Chat{ID: from, Type: tele.ChatPrivate}},
		},
	})
	return h.api.take()
}

func (h *harness) say(from int64, text string) []botCall {
	h.nextID++
	h.rt.ProcessUpdate(tele.Update{
		ID: h.nextID,
		Message: &tele.Message{
			ID:     h.nextID,
			Sender: &tele.User{ID: from},
			Chat:   &tele.Chat{ID: from, Type: tele.ChatPrivate},
			Text:   text,
		},
	})
	return h.api.take()
}

func (h *harness) pending(chatID int64) (session.Pending, bool) {
	h.t.Helper()
	p, ok, err := h.sessions.Get(context.Background(), chatID)
	if err != nil {
		h.t.Fatalf("session get: %v", err)
	}
	return p, ok
}

func (h *harness) list(cat catalog.Category) []catalog.Product {
	h.t.Helper()
	ps, err := h.repo.List(context.Background(), cat)
	if err != nil {
		h.t.Fatalf("list %s: %v", cat, err)
	}
	return ps
}

func (h *harness) find(cat catalog.Category, esName string) catalog.Product {
	h.t.Helper()
	for _, p := range h.list(cat) {
		if p.ES.Name == esName {
			return p
		}
	}
	h.t.Fatalf("%s not found in %s", esName, cat)
	return catalog.Product{}
}

func (h *harness) fileBytes() []byte {
	h.t.Helper()
	data, err := os.ReadFile(h.path)
	if err != nil {
		h.t.Fatal(err)
	}
	return data
}

// only returns the single outbound message of calls, skipping callback answers.
func only(t *testing.T, calls []botCall) botCall {
	t.Helper()
	var out []botCall
	for _, c := range calls {
		if c.Method != "answerCallbackQuery" {
			out = append(out, c)
		}
	}
	if len(out) != 1 {
		t.Fatalf("expected one message, got %d: %+v", len(out), out)
	}
	return out[0]
}

func expectText(t *testing.T, call botCall, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(call.text(), f) {
			t.Fatalf("%s text %q lacks %q", call.Method, call.text(), f)
		}
	}
}

func buttonData(t *testing.T, call botCall, label string) string {
	t.Helper()
	for _, b := range call.buttons(t) {
		if strings.HasPrefix(b.Text, label) {
			return b.Data
		}
	}
	t.Fatalf("no button %q in %+v", label, call.buttons(t))
	return ""
}
