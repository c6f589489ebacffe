package coolercontrol

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// deviceServer serves a fixed /devices body and accepts any login.
func deviceServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			w.WriteHeader(http.StatusOK)
		case "/devices":
			w.Write([]byte(body))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
}

func openTestSession(t *testing.T, baseURL string) *Session {
	t.Helper()
	s := newTestSession(t, baseURL, "coolAdmin")
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestDevicesParsesBareArray(t *testing.T) {
	server := deviceServer(t, `[
		{"name": "NZXT Kraken", "type": "Liquidctl", "uid": "abc123"},
		{"name": "CPU", "type": "CPU", "uid": "def456"}
	]`)
	defer server.Close()

	s := openTestSession(t, server.URL)
	devices, err := s.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices; got %d", len(devices))
	}
	if devices[0].Name != "NZXT Kraken" || devices[0].UID != "abc123" {
		t.Fatalf("unexpected first device: %+v", devices[0])
	}
}

func TestDevicesParsesEnvelope(t *testing.T) {
	server := deviceServer(t, `{"devices": [{"name": "Kraken", "type": "Liquidctl", "uid": "u1"}]}`)
	defer server.Close()

	s := openTestSession(t, server.URL)
	devices, err := s.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 1 || devices[0].UID != "u1" {
		t.Fatalf("unexpected devices: %+v", devices)
	}
}

func TestDevicesRequiresOpenSession(t *testing.T) {
	s := newTestSession(t, "http://localhost:1", "x")
	if _, err := s.Devices(context.Background()); err != ErrNotReady {
		t.Fatalf("expected ErrNotReady; got %v", err)
	}
}

func TestDiscoverLiquidctlPicksFirstMatch(t *testing.T) {
	server := deviceServer(t, `[
		{"name": "CPU", "type": "CPU", "uid": "cpu1"},
		{"name": "Kraken", "type": "Liquidctl", "uid": "lc1"},
		{"name": "Other AIO", "type": "Liquidctl", "uid": "lc2"}
	]`)
	defer server.Close()

	s := openTestSession(t, server.URL)
	d, err := s.DiscoverLiquidctl(context.Background())
	if err != nil {
		t.Fatalf("DiscoverLiquidctl: %v", err)
	}
	if d.UID != "lc1" {
		t.Fatalf("expected first Liquidctl device lc1; got %s", d.UID)
	}
}

func TestDiscoverLiquidctlSkipsEmptyUID(t *testing.T) {
	server := deviceServer(t, `[
		{"name": "Broken", "type": "Liquidctl", "uid": ""},
		{"name": "Kraken", "type": "Liquidctl", "uid": "lc2"}
	]`)
	defer server.Close()

	s := openTestSession(t, server.URL)
	d, err := s.DiscoverLiquidctl(context.Background())
	if err != nil {
		t.Fatalf("DiscoverLiquidctl: %v", err)
	}
	if d.UID != "lc2" {
		t.Fatalf("expected lc2; got %s", d.UID)
	}
}

func TestDiscoverLiquidctlNoDevice(t *testing.T) {
	server := deviceServer(t, `[{"name": "CPU", "type": "CPU", "uid": "cpu1"}]`)
	defer server.Close()

	s := openTestSession(t, server.URL)
	if _, err := s.DiscoverLiquidctl(context.Background()); err != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice; got %v", err)
	}
}

func TestValidateUID(t *testing.T) {
	server := deviceServer(t, `[{"name": "Kraken", "type": "Liquidctl", "uid": "lc1"}]`)
	defer server.Close()

	s := openTestSession(t, server.URL)

	ok, err := s.ValidateUID(context.Background(), "lc1")
	if err != nil || !ok {
		t.Fatalf("expected lc1 to validate; got ok=%v err=%v", ok, err)
	}
	ok, err = s.ValidateUID(context.Background(), "stale")
	if err != nil || ok {
		t.Fatalf("expected stale uid to fail validation; got ok=%v err=%v", ok, err)
	}
	ok, err = s.ValidateUID(context.Background(), "")
	if err != nil || ok {
		t.Fatalf("expected empty uid to fail validation without error; got ok=%v err=%v", ok, err)
	}
}

func TestValidateUIDTransportErrorIsReported(t *testing.T) {
	server := deviceServer(t, `[]`)
	s := openTestSession(t, server.URL)
	server.Close()

	ok, err := s.ValidateUID(context.Background(), "lc1")
	if err == nil {
		t.Fatalf("expected transport error after server shutdown")
	}
	if ok {
		t.Fatalf("expected ok=false on transport error")
	}
}
