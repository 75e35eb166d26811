package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Supervisor owns the engine subprocess end to end: spawning it, watching
// for exit, and tearing it down without ever panicking or returning an
// error from Stop. It is grounded on two patterns from the retrieved
// corpus: the fx.Lifecycle-driven construction of gateway.Server in the
// teacher repo, and the mutex-guarded external-process wrapper in
// r3e-network-service_layer/test/contract/neoexpress.go (Start/Stop around
// an *exec.Cmd, best-effort kill-then-wait teardown).
type Supervisor struct {
	logger       *zap.Logger
	enginePath   string
	eventLogPath string
	snapshotDir  string
	dataDir      string

	mu      sync.Mutex
	cmd     *exec.Cmd
	client  *Client
	done    chan struct{}
	exitErr error
}

// NewSupervisor constructs a Supervisor bound to a fixed engine binary path
// and data/snapshot locations. It does not start the subprocess.
func NewSupervisor(logger *zap.Logger, enginePath, dataDir, eventLogPath, snapshotDir string) *Supervisor {
	return &Supervisor{
		logger:       logger,
		enginePath:   enginePath,
		eventLogPath: eventLogPath,
		snapshotDir:  snapshotDir,
		dataDir:      dataDir,
	}
}

// Start spawns the engine subprocess. Precondition: the engine is not
// already running. On any spawn failure it returns a fatal error and the
// caller must not proceed to serve HTTP.
func (s *Supervisor) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("engine supervisor: already started")
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	if _, err := os.Stat(s.enginePath); err != nil {
		return fmt.Errorf("engine binary not found at %s: %w", s.enginePath, err)
	}

	cmd := exec.Command(s.enginePath, "--event-log", s.eventLogPath, "--snapshot-dir", s.snapshotDir)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("attach engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach engine stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attach engine stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn engine process: %w", err)
	}

	s.cmd = cmd
	s.done = make(chan struct{})
	s.client = NewClient(stdin, stdout, s)

	go s.watchStderr(stderr)
	go s.waitForExit()

	s.logger.Info("engine started", zap.Int("pid", cmd.Process.Pid), zap.String("path", s.enginePath))
	return nil
}

func (s *Supervisor) watchStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		s.logger.Warn(scanner.Text(), zap.String("source", "engine_stderr"))
	}
}

func (s *Supervisor) waitForExit() {
	err := s.cmd.Wait()
	s.mu.Lock()
	s.exitErr = err
	done := s.done
	s.mu.Unlock()
	close(done)
	if err != nil {
		s.logger.Warn("engine process exited", zap.Error(err))
	} else {
		s.logger.Info("engine process exited cleanly")
	}
}

// IsAlive reports whether the subprocess is still running, without
// blocking. Satisfies the AliveChecker interface Client depends on.
func (s *Supervisor) IsAlive() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Client returns the line-protocol client bound to the current subprocess's
// pipes, or nil if the engine has never been started.
func (s *Supervisor) Client() *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// Stop attempts a graceful shutdown, then force-terminates, then waits for
// exit with a 5-second bound. It never returns an error and is safe to call
// on a not-started, already-stopped, or partly-failed supervisor.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	cmd := s.cmd
	client := s.client
	done := s.done
	s.mu.Unlock()

	if cmd == nil {
		return nil
	}

	if client != nil && s.IsAlive() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		shutdownErr := make(chan error, 1)
		go func() { shutdownErr <- client.Shutdown(shutdownCtx) }()
		select {
		case err := <-shutdownErr:
			if err != nil {
				s.logger.Warn("graceful engine shutdown failed (ignored)", zap.Error(err))
			}
		case <-shutdownCtx.Done():
			s.logger.Warn("graceful engine shutdown timed out (ignored)")
		}
		cancel()
	}

	if s.IsAlive() && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			s.logger.Warn("engine process kill failed (ignored)", zap.Error(err))
		}
	}

	if done != nil {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.logger.Warn("timed out waiting for engine process exit")
		}
	}

	s.logger.Info("engine stopped")
	return nil
}
