package server

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/goaltrack/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func TestReadStatus(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	dir := t.TempDir()
	path := filepath.Join(dir, constants.ServerLockfileName)

	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	// Lockfile missing
	if _, err := ReadStatus(dir); !errors.Is(err, ErrNotRunning) {
		t.Errorf("missing lockfile error = %v, want ErrNotRunning", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "goaltrack"}, nil
	}

	malformed := []string{"invalid", "8787", "8787|12|x", "abc|12", "70000|12", "0|12", "8787|pid"}
	for _, content := range malformed {
		write(content)
		if _, err := ReadStatus(dir); err == nil {
			t.Errorf("ReadStatus() accepted malformed lockfile %q", content)
		}
	}

	write("8787|12345")
	status, err := ReadStatus(dir)
	if err != nil {
		t.Fatalf("ReadStatus() failed: %v", err)
	}
	if status.Port != 8787 || status.PID != 12345 {
		t.Errorf("status = %+v", status)
	}

	// Process gone
	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}
	if _, err := ReadStatus(dir); !errors.Is(err, ErrNotRunning) {
		t.Errorf("stale lockfile error = %v, want ErrNotRunning", err)
	}

	// PID reused by another program
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "bash"}, nil
	}
	if _, err := ReadStatus(dir); err == nil {
		t.Error("ReadStatus() accepted a foreign process")
	}
}

func TestWriteAndRemoveLockfile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	if err := WriteLockfile(dir, 9000); err != nil {
		t.Fatalf("WriteLockfile() failed: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, constants.ServerLockfileName))
	if err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}
	if want := "9000|" + strconv.Itoa(os.Getpid()); string(content) != want {
		t.Errorf("lockfile = %q, want %q", content, want)
	}

	RemoveLockfile(dir)
	if _, err := os.Stat(filepath.Join(dir, constants.ServerLockfileName)); !os.IsNotExist(err) {
		t.Error("lockfile still present after RemoveLockfile")
	}
}
