package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	RECORDINGS_DIR string = "recordings"
	PUBLIC_PREFIX  string = "/uploads"
	MAX_FILE_SIZE  int64  = 250 * 1024 * 1024
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// Storage writes uploaded files below root and maps them to public URLs
// under PUBLIC_PREFIX.
type Storage struct {
	root string
	now  func() time.Time
}

func New(root string) *Storage {
	return &Storage{root: root, now: time.Now}
}

func (s *Storage) Root() string {
	return s.root
}

// Init creates the upload directories.
func (s *Storage) Init() error {
	dir := filepath.Join(s.root, RECORDINGS_DIR)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return nil
}

// SanitizeName keeps the base name, replaces whitespace with underscores and
// drops every other character outside [A-Za-z0-9_.-].
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = whitespace.ReplaceAllString(name, "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" || name == "." || name == ".." {
		return "recording"
	}
	return name
}

// SaveRecording stores the file and returns its public path.
func (s *Storage) SaveRecording(header *multipart.FileHeader) (string, error) {
	if header.Size > MAX_FILE_SIZE {
		return "", fmt.Errorf("file %s exceeds %d bytes", header.Filename, MAX_FILE_SIZE)
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	filename := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SanitizeName(header.Filename))
	out, err := os.Create(filepath.Join(s.root, RECORDINGS_DIR, filename))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		_ = os.Remove(out.Name())
		return "", err
	}

	return path.Join(PUBLIC_PREFIX, RECORDINGS_DIR, filename), nil
}

// Remove deletes the file behind a public path returned by SaveRecording. A
// file that is already gone is not an error.
func (s *Storage) Remove(publicPath string) error {
	dir := path.Join(PUBLIC_PREFIX, RECORDINGS_DIR)
	if path.Clean(publicPath) != publicPath || path.Dir(publicPath) != dir {
		return fmt.Errorf("not a recording path: %q", publicPath)
	}
	name := path.Base(publicPath)
	if name != SanitizeName(name) {
		return fmt.Errorf("not a recording path: %q", publicPath)
	}

	err := os.Remove(filepath.Join(s.root, RECORDINGS_DIR, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
