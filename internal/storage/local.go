package storage

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"resort/internal/domain"
)

// MaxImageBytes caps a single uploaded image.
const MaxImageBytes = 5 << 20

// LocalStore writes uploaded images to a directory served under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir string) LocalStore {
	return LocalStore{Dir: dir, URLPrefix: "/uploads"}
}

// SaveBytes stores an image and returns its public URL. Non-image content is
// rejected with a ValidationError.
func (s LocalStore) SaveBytes(prefix string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ValidationError{Field: "image", Msg: "image is empty"}
	}
	if len(data) > MaxImageBytes {
		return "", domain.ValidationError{Field: "image", Msg: "image is too large"}
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.ValidationError{Field: "image", Msg: "only image uploads are allowed"}
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", domain.InternalError{Msg: "prepare upload dir", Err: err}
	}
	name := fmt.Sprintf("%s-%s%s", safePrefix(prefix), uuid.NewString(), mt.Extension())
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", domain.InternalError{Msg: "write upload", Err: err}
	}
	return path.Join(s.urlPrefix(), name), nil
}

// SaveDataURL accepts "data:image/png;base64,...." payloads.
func (s LocalStore) SaveDataURL(prefix, dataURL string) (string, error) {
	dataURL = strings.TrimSpace(dataURL)
	comma := strings.Index(dataURL, ",")
	if !strings.HasPrefix(dataURL, "data:") || comma < 0 || !strings.Contains(dataURL[:comma], ";base64") {
		return "", domain.ValidationError{Field: "imageData", Msg: "invalid image data"}
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return "", domain.ValidationError{Field: "imageData", Msg: "invalid image data", Err: err}
	}
	return s.SaveBytes(prefix, raw)
}

func (s LocalStore) SaveMultipart(prefix string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageBytes {
		return "", domain.ValidationError{Field: "image", Msg: "image is too large"}
	}
	f, err := fh.Open()
	if err != nil {
		return "", domain.ValidationError{Field: "image", Msg: "cannot read upload", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return "", domain.ValidationError{Field: "image", Msg: "cannot read upload", Err: err}
	}
	return s.SaveBytes(prefix, data)
}

func (s LocalStore) urlPrefix() string {
	if s.URLPrefix == "" {
		return "/uploads"
	}
	return s.URLPrefix
}

func safePrefix(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
