// Package coolercontrol speaks to the local CoolerControl daemon REST API:
// session login, device discovery, UID caching, and LCD image upload.
package coolercontrol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// loginUser is the fixed account name the CoolerControl daemon expects.
	loginUser = "CCAdmin"

	defaultHTTPTimeout = 10 * time.Second
)

var (
	// ErrNotReady is returned when an operation requires an authenticated
	// session and none is open.
	ErrNotReady = errors.New("coolercontrol: session not ready")
	// ErrClosed is returned when a closed session is reused.
	ErrClosed = errors.New("coolercontrol: session closed")
	// ErrNoDevice is returned when no Liquidctl device appears in the
	// daemon's device list.
	ErrNoDevice = errors.New("coolercontrol: no Liquidctl device found")
)

// Session owns the authenticated HTTP connection to the CoolerControl
// daemon. One instance is created at startup, passed explicitly to whatever
// needs it, and closed once at shutdown.
type Session struct {
	baseURL    string
	password   string
	client     *http.Client
	cookiePath string
	logger     *log.Logger

	ready  bool
	closed bool
}

// NewSession builds an unauthenticated session against address. The cookie
// store lives in a per-process file under the system temp directory and is
// removed on Close.
func NewSession(address, password string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		baseURL:    strings.TrimRight(address, "/"),
		password:   password,
		cookiePath: filepath.Join(os.TempDir(), fmt.Sprintf("coolerdash_cookies_%d.json", os.Getpid())),
		logger:     logger,
	}
}

// Open authenticates against the daemon: POST /login with HTTP Basic auth
// and an empty body. 200 and 204 both count as success.
func (s *Session) Open(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	jar, err := newFileJar(s.cookiePath)
	if err != nil {
		return fmt.Errorf("cookie store %s: %w", s.cookiePath, err)
	}
	s.client = &http.Client{Timeout: defaultHTTPTimeout, Jar: jar}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/login", nil)
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.SetBasicAuth(loginUser, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}
	s.ready = true
	return nil
}

// Ready reports whether the session is authenticated and usable.
func (s *Session) Ready() bool {
	return s.ready && !s.closed
}

// Close releases the HTTP client and deletes the cookie store. It is
// idempotent; repeated calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.ready = false
	s.client = nil
	if err := os.Remove(s.cookiePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cookie store: %w", err)
	}
	return nil
}
