package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Purpose: Detect whether this process was started by systemd.
// Key aspects: Checks the parent pid plus the INVOCATION_ID marker systemd sets.
// Upstream: main startup, to pick the right log wording.
// Downstream: os.Getppid and /proc/1/cmdline.
func runningUnderSystemd() bool {
	if os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() != 1 {
		return false
	}
	data, err := os.ReadFile("/proc/1/cmdline")
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "systemd")
}

// Purpose: Report whether pid belongs to a live coolerdash process.
// Key aspects: A stale pid (dead process or reused by another binary) is not
// counted as a running instance.
// Upstream: writePIDFile.
// Downstream: /proc/<pid>/cmdline.
func pidIsCoolerdash(pid int) bool {
	if pid <= 0 {
		return false
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "coolerdash")
}

// Purpose: Claim the PID file, enforcing a single running instance.
// Key aspects: A stale PID file from a crashed run is silently replaced.
// Upstream: main startup.
// Downstream: pidIsCoolerdash and os.WriteFile.
func writePIDFile(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if convErr == nil && pid != os.Getpid() && pidIsCoolerdash(pid) {
			return fmt.Errorf("another instance is running (pid %d, from %s)", pid, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory for %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write pid file %q: %w", path, err)
	}
	return nil
}

// Purpose: Remove the PID file at shutdown.
// Key aspects: Only removes the file when it still holds our own pid.
// Upstream: main shutdown.
// Downstream: os.Remove.
func removePIDFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if pid, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr != nil || pid != os.Getpid() {
		return
	}
	_ = os.Remove(path)
}
