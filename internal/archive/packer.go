package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/stats"
)

// ioBufferSize is the size of the copy buffer shared by all entries of one
// pack or unpack call.
const ioBufferSize = 64 * 1024

// PackConfig describes a pack operation.
type PackConfig struct {
	SrcRoot     string
	ArchivePath string
	Verify      bool
	Events      chan<- event.Event
	Stats       *stats.Collector
}

// Pack walks the tree rooted at SrcRoot breadth-first and writes one archive
// entry per regular file plus one trailing-slash entry per empty directory.
// Symlinks are followed; a directory whose resolved identity has already
// been visited is skipped, so link cycles terminate and every real directory
// is packed at most once. The root itself is never written as an entry.
func Pack(cfg PackConfig) error {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	out, err := os.Create(cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", cfg.ArchivePath, err)
	}

	counted := &countingWriter{w: out, stats: cfg.Stats}
	zw := zip.NewWriter(counted)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})

	emit(cfg.Events, event.Event{Type: event.PackStarted, Path: cfg.SrcRoot})

	err = packTree(cfg, zw)

	// The central directory is written on close; a failed close means a
	// truncated archive even when every entry succeeded.
	if cerr := zw.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("finalize archive %s: %w", cfg.ArchivePath, cerr)
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close archive %s: %w", cfg.ArchivePath, cerr)
	}
	if err != nil {
		return err
	}

	if cfg.Verify {
		result, verr := Verify(VerifyConfig{
			ArchivePath: cfg.ArchivePath,
			SrcRoot:     cfg.SrcRoot,
			Events:      cfg.Events,
			Stats:       cfg.Stats,
		})
		if verr != nil {
			return verr
		}
		if result.Failed > 0 {
			return fmt.Errorf("verify %s: %d entries mismatched", cfg.ArchivePath, result.Failed)
		}
	}
	return nil
}

// packTree drives the breadth-first walk. The frontier is an explicit FIFO
// queue; children are enqueued in os.ReadDir order (sorted by name), which
// makes the entry sequence deterministic for a given tree.
func packTree(cfg PackConfig, zw *zip.Writer) error {
	buf := make([]byte, ioBufferSize)
	visited := make(map[DevIno]struct{})
	frontier := []string{cfg.SrcRoot}

	for len(frontier) > 0 {
		path := frontier[0]
		frontier = frontier[1:]

		id, info, err := identityOf(path)
		if err != nil {
			return err
		}
		if _, seen := visited[id]; seen {
			slog.Debug("skipping already-visited directory", "path", path)
			cfg.Stats.AddCyclesSkipped(1)
			emit(cfg.Events, event.Event{Type: event.CycleSkipped, Path: path})
			continue
		}

		if !info.IsDir() {
			if err := packFile(cfg, zw, path, buf); err != nil {
				return err
			}
			continue
		}

		// Mark the directory visited before enumerating children so a link
		// back to it from below is caught.
		visited[id] = struct{}{}

		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", path, err)
		}
		if len(entries) == 0 && path != cfg.SrcRoot {
			if err := packDir(cfg, zw, path); err != nil {
				return err
			}
			continue
		}
		for _, entry := range entries {
			frontier = append(frontier, filepath.Join(path, entry.Name()))
		}
	}
	return nil
}

func packFile(cfg PackConfig, zw *zip.Writer, path string, buf []byte) error {
	name, err := EntryName(path, cfg.SrcRoot, false)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("add entry %s: %w", name, err)
	}
	n, err := io.CopyBuffer(w, f, buf)
	if err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}

	cfg.Stats.AddFilesPacked(1)
	cfg.Stats.AddBytesRead(n)
	emit(cfg.Events, event.Event{Type: event.FileAdded, Path: name, Size: n})
	return nil
}

// packDir writes the single entry an empty directory gets. Non-empty
// directories are implied by their children and get no entry of their own.
func packDir(cfg PackConfig, zw *zip.Writer, path string) error {
	name, err := EntryName(path, cfg.SrcRoot, true)
	if err != nil {
		return err
	}
	if _, err := zw.CreateHeader(&zip.FileHeader{Name: name}); err != nil {
		return fmt.Errorf("add entry %s: %w", name, err)
	}

	cfg.Stats.AddDirEntries(1)
	emit(cfg.Events, event.Event{Type: event.DirAdded, Path: name})
	return nil
}

// countingWriter tracks compressed bytes as they reach the archive file.
type countingWriter struct {
	w     io.Writer
	stats *stats.Collector
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.stats.AddBytesWritten(int64(n))
	return n, err
}

// emit sends an event without blocking; a nil or full channel drops it.
func emit(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
