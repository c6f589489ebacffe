package coolercontrol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// UploadRepeatCount is how many times the pipeline sends each rendered
// image. Some LCD firmwares keep stale pixels after a single upload; the
// second send clears them. This is a fixed policy, not a retry: every
// attempt is made regardless of the previous one's outcome.
const UploadRepeatCount = 2

// mimeTypeFor infers the upload MIME type from the image file extension.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

// UploadImage sends the image at imagePath to the device LCD via
// PUT /devices/{uid}/settings/lcd/lcd/images. brightness is a percentage
// (0-100), orientation one of 0/90/180/270; both travel as decimal strings
// in the multipart form. Only HTTP 200 counts as success.
func (s *Session) UploadImage(ctx context.Context, imagePath, deviceUID string, brightness, orientation int) error {
	if !s.Ready() {
		return ErrNotReady
	}
	if deviceUID == "" {
		return fmt.Errorf("upload: device uid is empty")
	}
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image %s: %w", imagePath, err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("mode", "image"); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("brightness", strconv.Itoa(brightness)); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("orientation", strconv.Itoa(orientation)); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images[]"; filename=%q`, filepath.Base(imagePath)))
	header.Set("Content-Type", mimeTypeFor(imagePath))
	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	url := fmt.Sprintf("%s/devices/%s/settings/lcd/lcd/images", s.baseURL, deviceUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return nil
}
