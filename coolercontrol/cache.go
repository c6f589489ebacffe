package coolercontrol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const uidCacheFilename = "device_uid"

// UIDCache persists the discovered device UID as a single-line file so
// restarts can skip discovery. The in-memory copy and the file are kept
// consistent: Save updates both, Clear empties both. A cached UID is never
// trusted without validation against the live device list.
type UIDCache struct {
	dir string
	uid string
}

// NewUIDCache returns a cache rooted at dir. The directory is created
// lazily on the first Save.
func NewUIDCache(dir string) *UIDCache {
	return &UIDCache{dir: dir}
}

// UID returns the in-memory cached UID, "" when none is held.
func (c *UIDCache) UID() string {
	return c.uid
}

func (c *UIDCache) path() string {
	return filepath.Join(c.dir, uidCacheFilename)
}

// Load reads the cached UID from disk into memory. An absent, empty, or
// malformed cache file (anything but a single whitespace-free line) counts
// as no cache.
func (c *UIDCache) Load() (string, bool) {
	if c.uid != "" {
		return c.uid, true
	}
	data, err := os.ReadFile(c.path())
	if err != nil {
		return "", false
	}
	uid := strings.TrimSpace(string(data))
	if uid == "" || strings.ContainsAny(uid, " \t\n\r") {
		return "", false
	}
	c.uid = uid
	return uid, true
}

// Save persists uid to memory and disk, creating the cache directory if
// needed.
func (c *UIDCache) Save(uid string) error {
	if uid == "" {
		return fmt.Errorf("refusing to cache empty uid")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", c.dir, err)
	}
	if err := os.WriteFile(c.path(), []byte(uid+"\n"), 0o644); err != nil {
		return fmt.Errorf("write uid cache: %w", err)
	}
	c.uid = uid
	return nil
}

// Clear drops the UID from memory and removes the cache file, forcing the
// next startup through discovery.
func (c *UIDCache) Clear() {
	c.uid = ""
	if err := os.Remove(c.path()); err != nil && !os.IsNotExist(err) {
		// Leave a stale file behind rather than fail; it will be
		// revalidated before use anyway.
		return
	}
}
