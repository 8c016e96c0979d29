package webtui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewServer_RequiresAddr(t *testing.T) {
	_, err := NewServer(ServerConfig{Addr: " "})
	assert.Error(t, err)
}

func TestHandler_Pages(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/terminal", rec.Header().Get("Location"))

	rec = get(t, h, "/terminal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="/static/app.js"`)
	assert.Contains(t, rec.Body.String(), `href="/docs/dragging"`)

	rec = get(t, h, "/static/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")

	rec = get(t, h, "/docs/dragging")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Dragging</h1>")

	rec = get(t, h, "/docs/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// echoSession is a child that writes back whatever it reads.
type echoSession struct {
	mu      sync.Mutex
	resizes [][2]uint16
	closed  chan struct{}
}

func (e *echoSession) start(ctx context.Context) (*session, error) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go func() {
		_, _ = io.Copy(outW, inR)
		_ = outW.Close()
	}()
	var once sync.Once
	return &session{
		ReadWriter: struct {
			io.Reader
			io.Writer
		}{outR, inW},
		resize: func(cols, rows uint16) error {
			e.mu.Lock()
			e.resizes = append(e.resizes, [2]uint16{cols, rows})
			e.mu.Unlock()
			return nil
		},
		close: func() {
			once.Do(func() {
				_ = inW.Close()
				_ = outR.Close()
				close(e.closed)
			})
		},
	}, nil
}

func (e *echoSession) resizeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.resizes)
}

func TestHandleWS_PumpsBothWaysAndCountsSessions(t *testing.T) {
	s := newTestServer(t)
	echo := &echoSession{closed: make(chan struct{})}
	s.start = echo.start

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"resize","cols":80,"rows":24}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("\x1b[<0;3;2M")))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got bytes.Buffer
	for got.Len() < len("\x1b[<0;3;2M") {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		got.Write(data)
	}
	assert.Equal(t, "\x1b[<0;3;2M", got.String())
	assert.Equal(t, 1, echo.resizeCount(), "resize frames must not reach the child")

	metrics := get(t, s.Handler(), "/metrics").Body.String()
	assert.Contains(t, metrics, "draglist_web_sessions_total 1")
	assert.Contains(t, metrics, "draglist_web_sessions_active 1")

	require.NoError(t, conn.Close())
	select {
	case <-echo.closed:
	case <-time.After(5 * time.Second):
		t.Fatalf("session was not closed after the socket closed")
	}
	require.Eventually(t, func() bool {
		return strings.Contains(get(t, s.Handler(), "/metrics").Body.String(), "draglist_web_sessions_active 0")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestHandleWS_StartFailure(t *testing.T) {
	s := newTestServer(t)
	s.start = func(context.Context) (*session, error) { return nil, errors.New("no pty") }

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "no pty")

	metrics := get(t, s.Handler(), "/metrics").Body.String()
	assert.Contains(t, metrics, "draglist_web_sessions_failed_total 1")
}
