package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/platform"
	"github.com/ziptree/ziptree/internal/stats"
)

// UnpackConfig describes an unpack operation.
type UnpackConfig struct {
	ArchivePath string
	DstRoot     string
	Events      chan<- event.Event
	Stats       *stats.Collector
}

// Unpack extracts every entry of the archive beneath DstRoot, creating the
// root if it does not exist. Each entry name is validated before anything is
// written for it, and the first unsafe name aborts the whole extraction.
// Files that already exist are overwritten in place; nothing is deleted.
func Unpack(cfg UnpackConfig) error {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	r, err := zip.OpenReader(cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", cfg.ArchivePath, err)
	}
	defer r.Close()
	r.RegisterDecompressor(zip.Deflate, func(rd io.Reader) io.ReadCloser {
		return flate.NewReader(rd)
	})

	if err := ensureDir(cfg.DstRoot); err != nil {
		return err
	}

	emit(cfg.Events, event.Event{Type: event.UnpackStarted, Path: cfg.ArchivePath})

	buf := make([]byte, ioBufferSize)
	for _, f := range r.File {
		if err := extractEntry(cfg, f, buf); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(cfg UnpackConfig, f *zip.File, buf []byte) error {
	rel, err := EntryPath(f.Name)
	if err != nil {
		return err
	}
	dst := filepath.Join(cfg.DstRoot, rel)

	if strings.HasSuffix(f.Name, "/") {
		if err := ensureDir(dst); err != nil {
			return err
		}
		cfg.Stats.AddDirsCreated(1)
		emit(cfg.Events, event.Event{Type: event.DirCreated, Path: f.Name})
		return nil
	}

	if err := ensureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	platform.Preallocate(out, int64(f.UncompressedSize64)) //nolint:gosec // G115: entry sizes fit int64
	n, err := io.CopyBuffer(out, rc, buf)
	if err != nil {
		out.Close()
		return fmt.Errorf("extract entry %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	cfg.Stats.AddFilesExtracted(1)
	cfg.Stats.AddBytesWritten(n)
	emit(cfg.Events, event.Event{Type: event.FileExtracted, Path: f.Name, Size: n})
	return nil
}

// ensureDir creates dir and any missing parents. A path element that exists
// as a non-directory surfaces as an error here.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
