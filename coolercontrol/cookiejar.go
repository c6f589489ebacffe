package coolercontrol

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fileJar is an http.CookieJar that mirrors its contents to a JSON file so
// the daemon session cookie survives between requests and can be removed
// cleanly on shutdown. Matching semantics are delegated to the stdlib jar.
type fileJar struct {
	path string
	mem  *cookiejar.Jar

	mu    sync.Mutex
	state map[string][]storedCookie
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func newFileJar(path string) (*fileJar, error) {
	mem, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &fileJar{
		path:  path,
		mem:   mem,
		state: make(map[string][]storedCookie),
	}
	j.restore()
	return j, nil
}

// restore loads previously persisted cookies. A missing or malformed file
// simply starts an empty jar.
func (j *fileJar) restore() {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}
	var state map[string][]storedCookie
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}
	j.state = state
	for rawURL, cookies := range state {
		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		restored := make([]*http.Cookie, 0, len(cookies))
		for _, c := range cookies {
			restored = append(restored, &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			})
		}
		j.mem.SetCookies(u, restored)
	}
}

func (j *fileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mem.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	j.state[u.Scheme+"://"+u.Host] = stored
	if data, err := json.Marshal(j.state); err == nil {
		// Persist errors are non-fatal: the in-memory jar still works.
		_ = os.WriteFile(j.path, data, 0o600)
	}
}

func (j *fileJar) Cookies(u *url.URL) []*http.Cookie {
	return j.mem.Cookies(u)
}
