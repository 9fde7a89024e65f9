package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/warthreads/internal/api"
	"github.com/tomz197/warthreads/internal/config"
	"github.com/tomz197/warthreads/internal/draw"
	"github.com/tomz197/warthreads/internal/hub"
	"github.com/tomz197/warthreads/internal/loop/client"
	gameconfig "github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/object"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultStatusAddr  = ":8081"
	shutdownTimeout    = 5 * time.Second
)

func main() {
	logger := config.NewLogger(os.Stderr, "warthreads")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	statusAddr := config.GetEnv("STATUS_ADDR", defaultStatusAddr)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "status", statusAddr)

	tuning, err := gameconfig.Load(config.GetEnv("GAME_TUNING", ""))
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}

	matches := hub.New(logger)
	feed := api.NewFeed(matches, time.Second, logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(matches, tuning, logger),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	sshServer, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("create ssh server", "err", err)
	}

	statusServer := &http.Server{
		Addr:              statusAddr,
		Handler:           api.NewRouter(matches, feed, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting ssh server", "addr", sshServer.Addr)
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("starting status server", "addr", statusAddr)
		if err := statusServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		feed.Run(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		// End every match so sessions show their screens and disconnect.
		if n := matches.StopAll(); n > 0 {
			logger.Info("stopped live matches", "count", n)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(
			sshServer.Shutdown(shutdownCtx),
			statusServer.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// gameMiddleware runs one match per SSH session.
func gameMiddleware(matches *hub.Hub, tuning gameconfig.Tuning, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := client.NewClient(bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Logger:       logger,
				StartTimeout: tuning.StartTimeout,
				Arena:        object.Arena{Width: tuning.ArenaWidth, Height: tuning.ArenaHeight},
			})
			m := matches.Open(c, match.Options{Tuning: tuning, Logger: logger})

			logger.Info("session started", "user", sess.User(), "match", m.ID(),
				"term", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			draw.EnterAltScreen(sess)
			if err := c.Run(sess.Context(), m); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("game error", "user", sess.User(), "match", m.ID(), "err", err)
			}
			draw.ExitAltScreen(sess)

			hits, misses := m.State().Score.Snapshot()
			logger.Info("session ended", "user", sess.User(), "match", m.ID(), "hits", hits, "misses", misses)
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
