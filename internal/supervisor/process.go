package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// Worker is the handle on the one spawned worker process. It is created on
// spawn and stays valid until the process is confirmed exited; all
// termination calls against an exited process are no-ops.
type Worker struct {
	cmd       *exec.Cmd
	startedAt time.Time
	logFile   *os.File

	done chan struct{}

	mu       sync.Mutex
	exitCode int
}

// StartWorker spawns the worker with the config path as its single positional
// argument. stdout and stderr are appended to logPath (falling back to the
// working directory when that location is not writable); empty logPath
// inherits the watchdog's own streams.
func StartWorker(command string, args []string, configPath, logPath string) (*Worker, error) {
	cmd := exec.Command(command, append(append([]string{}, args...), configPath)...)

	var logFile *os.File
	if logPath != "" {
		f, err := openAppend(logPath)
		if err != nil {
			return nil, fmt.Errorf("open worker log: %w", err)
		}
		logFile = f
		cmd.Stdout = f
		cmd.Stderr = f
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("spawn worker: %w", err)
	}

	w := &Worker{
		cmd:       cmd,
		startedAt: time.Now(),
		logFile:   logFile,
		done:      make(chan struct{}),
		exitCode:  -1,
	}

	go w.reap()

	return w, nil
}

// reap blocks on the worker and records its exit status. Exactly one reaper
// per worker; done is closed only after the exit code is stored.
func (w *Worker) reap() {
	err := w.cmd.Wait()

	w.mu.Lock()
	if state := w.cmd.ProcessState; state != nil {
		w.exitCode = state.ExitCode()
	} else if err != nil {
		w.exitCode = -1
	}
	w.mu.Unlock()

	if w.logFile != nil {
		w.logFile.Close()
	}
	close(w.done)
}

func (w *Worker) PID() int {
	return w.cmd.Process.Pid
}

func (w *Worker) StartedAt() time.Time {
	return w.startedAt
}

// Done is closed once the process has been reaped.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) IsAlive() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// SendGraceful asks the worker to shut down cleanly (SIGTERM). Safe to call
// any number of times, including after exit.
func (w *Worker) SendGraceful() {
	if !w.IsAlive() {
		return
	}
	// Signal errors ("process already finished") only mean we lost the race
	// with the worker's own exit.
	_ = w.cmd.Process.Signal(syscall.SIGTERM)
}

// Kill terminates the worker unconditionally (SIGKILL). Also idempotent.
func (w *Worker) Kill() {
	if !w.IsAlive() {
		return
	}
	_ = w.cmd.Process.Kill()
}

// WaitTimeout blocks until the worker exits or d elapses. Reports whether the
// worker exited in time.
func (w *Worker) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-w.done:
		return true
	case <-timer.C:
		return false
	}
}

// Wait blocks until exit and returns the worker's exit code. -1 means the
// worker was killed by a signal rather than exiting on its own.
func (w *Worker) Wait() int {
	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exitCode
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		return f, nil
	}

	local := filepath.Base(path)
	if f, localErr := os.OpenFile(local, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); localErr == nil {
		return f, nil
	}
	return nil, err
}
