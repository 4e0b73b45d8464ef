package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/goaltrack/internal/constants"
)

var findProcessFunc = ps.FindProcess

// ErrNotRunning is returned by Status when no live server owns the lockfile.
var ErrNotRunning = errors.New("trigger server is not running")

// Status describes a running trigger server.
type Status struct {
	Port int
	PID  int
}

func lockfilePath(dir string) string {
	return filepath.Join(dir, constants.ServerLockfileName)
}

// WriteLockfile records "port|pid" for the current process.
func WriteLockfile(dir string, port int) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%d|%d", port, os.Getpid())
	if err := os.WriteFile(lockfilePath(dir), []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

func RemoveLockfile(dir string) {
	_ = os.Remove(lockfilePath(dir))
}

// ReadStatus reads the lockfile in dir and checks that the process it names
// is still a live goaltrack process.
func ReadStatus(dir string) (Status, error) {
	content, err := os.ReadFile(lockfilePath(dir))
	if err != nil {
		return Status{}, ErrNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Status{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return Status{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return Status{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Status{}, errors.New("invalid process ID in lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return Status{}, fmt.Errorf("%w (stale lockfile for PID %d)", ErrNotRunning, pid)
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return Status{}, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.AppName, process.Executable())
	}

	return Status{Port: port, PID: pid}, nil
}
