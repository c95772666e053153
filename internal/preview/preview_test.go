package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/vango-dev/spark/internal/config"
	"github.com/vango-dev/spark/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

const tree = `
title: Preview
vars:
  name: World
page:
  tag: p
  attrs: {class: greeting}
  children: ["Hello ", {var: name}]
`

func writeTree(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "page.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestServer(t *testing.T, watch bool) (*Server, string) {
	t.Helper()
	path := writeTree(t, t.TempDir(), tree)
	cfg := config.New()
	cfg.Serve.Port = 0
	cfg.Serve.Watch = &watch
	s, err := New(Options{
		TreePath: path,
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Debounce: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s, path
}

func TestInitialRender(t *testing.T) {
	s, _ := newTestServer(t, false)
	if got := s.HTML(); got != `<p class="greeting">Hello World</p>` {
		t.Errorf("HTML() = %q", got)
	}
}

func TestNewMissingTree(t *testing.T) {
	_, err := New(Options{TreePath: filepath.Join(t.TempDir(), "none.yaml")})
	if !errors.HasCode(err, errors.CodeTreeDecode) {
		t.Errorf("New() error = %v, want %s", err, errors.CodeTreeDecode)
	}
}

func TestSetVar(t *testing.T) {
	s, _ := newTestServer(t, false)
	if err := s.SetVar("name", "Spark"); err != nil {
		t.Fatalf("SetVar() error = %v", err)
	}
	if got := s.HTML(); got != `<p class="greeting">Hello Spark</p>` {
		t.Errorf("HTML() = %q", got)
	}
	if err := s.SetVar("missing", "x"); !errors.HasCode(err, errors.CodeUnknownVar) {
		t.Errorf("SetVar(missing) = %v, want %s", err, errors.CodeUnknownVar)
	}
}

func TestReload(t *testing.T) {
	s, path := newTestServer(t, false)

	writeTree(t, filepath.Dir(path), "page: {tag: h1, children: Reloaded}\n")
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := s.HTML(); got != "<h1>Reloaded</h1>" {
		t.Errorf("HTML() after reload = %q", got)
	}

	writeTree(t, filepath.Dir(path), "page: {tag: h1, bogus: 1}\n")
	if err := s.Reload(); !errors.HasCode(err, errors.CodeTreeDecode) {
		t.Fatalf("Reload() error = %v, want %s", err, errors.CodeTreeDecode)
	}
	if got := s.HTML(); got != "<h1>Reloaded</h1>" {
		t.Errorf("failed reload should keep the page, got %q", got)
	}
	if msg := s.currentMessage(); msg.Type != MessageError {
		t.Errorf("currentMessage().Type = %q, want error", msg.Type)
	}
}

func TestHTTPRoutes(t *testing.T) {
	s, _ := newTestServer(t, false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	client := ts.Client()

	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{
		"<title>Preview</title>",
		`<div id="spark-root"><p class="greeting">Hello World</p></div>`,
		"/_spark/ws",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}

	resp, err = client.Post(ts.URL+"/_spark/vars/name", "application/json", strings.NewReader(`{"value":"HTTP"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST var status = %d", resp.StatusCode)
	}

	resp, err = client.Get(ts.URL + "/_spark/vars")
	if err != nil {
		t.Fatal(err)
	}
	var vars map[string]string
	json.NewDecoder(resp.Body).Decode(&vars)
	resp.Body.Close()
	if diff := cmp.Diff(map[string]string{"name": "HTTP"}, vars); diff != "" {
		t.Errorf("vars mismatch (-want +got):\n%s", diff)
	}

	resp, err = client.Post(ts.URL+"/_spark/vars/nope", "application/json", strings.NewReader(`{"value":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown var status = %d, want 404", resp.StatusCode)
	}

	resp, err = client.Post(ts.URL+"/_spark/vars/name", "application/json", strings.NewReader(`not json`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", resp.StatusCode)
	}

	resp, err = client.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `spark_components_rendered_total{component="block"} 1`) {
		t.Errorf("metrics missing rendered component:\n%s", body)
	}

	resp, err = client.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}

func TestWebSocketPush(t *testing.T) {
	s, _ := newTestServer(t, false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_spark/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	msg := readMessage(t, conn)
	if msg.Type != MessageContent || !strings.Contains(msg.HTML, "Hello World") {
		t.Fatalf("initial message = %+v", msg)
	}

	waitFor(t, func() bool { return s.Hub().ClientCount() == 1 })
	if err := s.SetVar("name", "Push"); err != nil {
		t.Fatal(err)
	}
	msg = readMessage(t, conn)
	if msg.Type != MessageContent || !strings.Contains(msg.HTML, "Hello Push") {
		t.Errorf("pushed message = %+v", msg)
	}

	conn.Close()
	waitFor(t, func() bool { return s.Hub().ClientCount() == 0 })
}

func TestWatcherReload(t *testing.T) {
	s, path := newTestServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())

	w, err := NewWatcher(path, 20*time.Millisecond, nil, func() { s.Reload() })
	if err != nil {
		t.Fatal(err)
	}
	w.Start(ctx)
	defer func() {
		cancel()
		w.Close()
	}()

	writeTree(t, filepath.Dir(path), "page: watched\n")
	waitFor(t, func() bool { return s.HTML() == "watched" })
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTree(t, dir, tree)

	changed := make(chan struct{}, 1)
	w, err := NewWatcher(path, 20*time.Millisecond, nil, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Start(context.Background())
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Error("change reported for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRun(t *testing.T) {
	s, _ := newTestServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
