// Package debugdump persists upstream payloads as indented JSON files so a
// week can be inspected or replayed without network access.
package debugdump

import (
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

const fileExt = ".json"

type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: strings.TrimSpace(dir)}
}

func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// Write encodes payload to <dir>/<name>.json and returns the file path.
func (w *Writer) Write(name string, payload any) (string, error) {
	if w == nil || w.dir == "" {
		return "", crerr.New("debug dump directory is not configured")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", crerr.Wrapf(err, "create debug dump dir %s", w.dir)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoder := sonic.ConfigDefault.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return "", crerr.Wrapf(err, "encode debug dump %s", name)
	}

	path := FilePath(w.dir, name)
	if err := os.WriteFile(path, buf.B, 0o644); err != nil {
		return "", crerr.Wrapf(err, "write debug dump %s", path)
	}
	return path, nil
}

// Read decodes <dir>/<name>.json into target. A missing file reports
// os.ErrNotExist.
func Read(dir, name string, target any) error {
	path := FilePath(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return crerr.Wrapf(err, "read debug dump %s", path)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode debug dump %s", path)
	}
	return nil
}

func FilePath(dir, name string) string {
	return filepath.Join(dir, name+fileExt)
}
