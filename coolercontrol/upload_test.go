package coolercontrol

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, name string) (string, []byte) {
	t.Helper()
	payload := []byte("\x89PNG\r\n\x1a\nfake image payload")
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write test image: %v", err)
	}
	return path, payload
}

func TestUploadImageSendsMultipartForm(t *testing.T) {
	imagePath, payload := writeTestImage(t, "dashboard.png")

	type captured struct {
		method, path string
		mode         string
		brightness   string
		orientation  string
		imageName    string
		imageType    string
		imageBody    []byte
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.WriteHeader(http.StatusOK)
			return
		}
		got.method = r.Method
		got.path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got.mode = r.FormValue("mode")
		got.brightness = r.FormValue("brightness")
		got.orientation = r.FormValue("orientation")
		files := r.MultipartForm.File["images[]"]
		if len(files) != 1 {
			t.Errorf("expected one images[] part; got %d", len(files))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got.imageName = files[0].Filename
		got.imageType = files[0].Header.Get("Content-Type")
		f, err := files[0].Open()
		if err != nil {
			t.Errorf("open image part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		got.imageBody, _ = io.ReadAll(f)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := openTestSession(t, server.URL)
	if err := s.UploadImage(context.Background(), imagePath, "lc-uid-9", 80, 0); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}

	if got.method != http.MethodPut {
		t.Fatalf("expected PUT; got %s", got.method)
	}
	if got.path != "/devices/lc-uid-9/settings/lcd/lcd/images" {
		t.Fatalf("unexpected upload path %s", got.path)
	}
	if got.mode != "image" {
		t.Fatalf("expected mode image; got %q", got.mode)
	}
	if got.brightness != "80" || got.orientation != "0" {
		t.Fatalf("expected brightness 80 and orientation 0 as strings; got %q/%q", got.brightness, got.orientation)
	}
	if got.imageName != "dashboard.png" {
		t.Fatalf("expected filename dashboard.png; got %q", got.imageName)
	}
	if got.imageType != "image/png" {
		t.Fatalf("expected image/png; got %q", got.imageType)
	}
	if !bytes.Equal(got.imageBody, payload) {
		t.Fatalf("image payload mismatch: %d bytes sent, %d received", len(payload), len(got.imageBody))
	}
}

func TestUploadImageRejectsNon200(t *testing.T) {
	imagePath, _ := writeTestImage(t, "dashboard.png")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	s := openTestSession(t, server.URL)
	if err := s.UploadImage(context.Background(), imagePath, "lc-uid-9", 100, 90); err == nil {
		t.Fatalf("expected error for status 202")
	}
}

func TestUploadImageRequiresSessionAndUID(t *testing.T) {
	imagePath, _ := writeTestImage(t, "dashboard.png")

	s := newTestSession(t, "http://localhost:1", "x")
	if err := s.UploadImage(context.Background(), imagePath, "uid", 80, 0); err != ErrNotReady {
		t.Fatalf("expected ErrNotReady; got %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	open := openTestSession(t, server.URL)
	if err := open.UploadImage(context.Background(), imagePath, "", 80, 0); err == nil {
		t.Fatalf("expected error for empty uid")
	}
}

func TestMimeTypeFor(t *testing.T) {
	cases := map[string]string{
		"a.png":  "image/png",
		"a.PNG":  "image/png",
		"a.jpg":  "image/jpeg",
		"a.jpeg": "image/jpeg",
		"a.gif":  "image/gif",
		"a.bin":  "image/png",
	}
	for path, want := range cases {
		if got := mimeTypeFor(path); got != want {
			t.Fatalf("mimeTypeFor(%s): expected %s; got %s", path, want, got)
		}
	}
}
