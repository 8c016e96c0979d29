package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

// session is one running list view attached to a terminal.
type session struct {
	io.ReadWriter
	resize func(cols, rows uint16) error
	close  func()
}

type sessionStarter func(ctx context.Context) (*session, error)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		// Same-origin only; the server is meant for localhost.
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	log := s.log.With(slog.String("session_id", id))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess, err := s.start(ctx)
	if err != nil {
		s.metrics.sessionsFailed.Inc()
		log.Error("start session", slog.String("err", err.Error()))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer sess.close()

	s.metrics.sessionsTotal.Inc()
	s.metrics.sessionsActive.Inc()
	defer s.metrics.sessionsActive.Dec()
	log.Info("session started", slog.String("remote", r.RemoteAddr))
	started := time.Now()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ctx, sess, conn)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, sess)
	}()

	// Either direction stopping ends the session.
	select {
	case <-ctx.Done():
	case <-errCh:
	}
	cancel()
	sess.close()
	_ = conn.Close()
	wg.Wait()

	log.Info("session ended", slog.Duration("duration", time.Since(started)))
}

// startPTYSession re-executes this binary under a PTY with no subcommand,
// which runs the list view.
func (s *Server) startPTYSession(ctx context.Context) (*session, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(exe, s.cfg.ChildArgs...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 100, Rows: 32})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return &session{
		ReadWriter: ptmx,
		resize: func(cols, rows uint16) error {
			return pty.Setsize(ptmx, &pty.Winsize{Cols: cols, Rows: rows})
		},
		close: func() {
			once.Do(func() {
				_ = ptmx.Close()
				_ = cmd.Process.Kill()
				_, _ = cmd.Process.Wait()
			})
		},
	}, nil
}

func pumpPTYToWS(ctx context.Context, r io.Reader, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := r.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, sess *session) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		// Control messages are JSON text. Keystroke and mouse frames are plain text or binary.
		if mt == websocket.TextMessage && len(data) > 0 && data[0] == '{' {
			var m wsMsg
			if jerr := json.Unmarshal(data, &m); jerr != nil {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(m.Type), "resize") && m.Cols > 0 && m.Rows > 0 && sess.resize != nil {
				_ = sess.resize(uint16(m.Cols), uint16(m.Rows))
			}
			continue
		}

		if len(data) == 0 {
			continue
		}
		if _, err := sess.Write(data); err != nil {
			return err
		}
	}
}
