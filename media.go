package sharevault

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
)

// MediaStore writes uploaded files to disk under a per-uploader prefix and
// records their metadata through the Store. Storage keys have the form
// "uploaderID/<unix-ms>_<name>", so listings group by uploader and sort by
// upload time within one.
type MediaStore struct {
	root  string
	store *Store
}

// NewMediaStore creates a MediaStore rooted at dir.
func NewMediaStore(dir string, store *Store) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &MediaStore{root: dir, store: store}, nil
}

// Root returns the directory uploads are stored under, for static serving.
func (m *MediaStore) Root() string {
	return m.root
}

// Save stores an upload and returns its metadata. Images are re-encoded as
// JPEG and downscaled to maxImageWidth; other file types are stored as-is.
func (m *MediaStore) Save(src io.Reader, name, contentType, uploadedBy string) (MediaFile, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return MediaFile{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return MediaFile{}, fmt.Errorf("file too large (max %d bytes)", maxUploadSize)
	}

	if strings.HasPrefix(contentType, "image/") {
		resized, err := processImage(bytes.NewReader(data))
		if err != nil {
			return MediaFile{}, err
		}
		data = resized
		contentType = "image/jpeg"
		name = replaceExt(name, ".jpg")
	}

	key := storageKey(uploadedBy, name)
	dst := filepath.Join(m.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return MediaFile{}, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return MediaFile{}, fmt.Errorf("write upload: %w", err)
	}

	file := MediaFile{
		Name:       name,
		URL:        "/media/" + key,
		Type:       contentType,
		Size:       int64(len(data)),
		Path:       key,
		UploadedBy: uploadedBy,
		UploadedAt: time.Now().UTC(),
	}
	if err := m.store.SaveMedia(file); err != nil {
		os.Remove(dst)
		return MediaFile{}, err
	}
	return file, nil
}

// List returns all uploads, newest first.
func (m *MediaStore) List() ([]MediaFile, error) {
	return m.store.ListMedia()
}

// Delete removes an upload's bytes and its metadata row. A key that escapes
// the media root is rejected; a file already gone from disk is not an error.
func (m *MediaStore) Delete(key string) error {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid media key %q", key)
	}
	_ = os.Remove(filepath.Join(m.root, clean))
	return m.store.DeleteMediaRecord(key)
}

// storageKey builds the "uploader/<unix-ms>_<name>" key. The filename is
// sanitized to a path-safe form; an empty result falls back to a uuid so
// the key never collapses to the bare timestamp prefix.
func storageKey(uploadedBy, name string) string {
	safe := sanitizeFilename(name)
	if safe == "" {
		safe = uuid.NewString()
	}
	if uploadedBy == "" {
		uploadedBy = "anonymous"
	}
	ms := time.Now().UnixMilli()
	return uploadedBy + "/" + strconv.FormatInt(ms, 10) + "_" + safe
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), ".-")
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// processImage decodes an image, downscales it to maxImageWidth if wider,
// and re-encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
