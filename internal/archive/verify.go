package archive

import (
	"archive/zip"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/zeebo/blake3"

	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/stats"
)

// VerifyConfig controls the post-pack verification pass.
type VerifyConfig struct {
	ArchivePath string
	SrcRoot     string
	Events      chan<- event.Event
	Stats       *stats.Collector
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Verified int64
	Failed   int64
	Errors   []VerifyError
}

// VerifyError records a single checksum mismatch.
type VerifyError struct {
	Path        string
	SourceHash  string
	ArchiveHash string
}

// Verify re-reads the archive and compares the BLAKE3 digest of every file
// entry against the source file it was packed from. It runs sequentially in
// archive order; an unreadable side counts as a mismatch rather than
// aborting the pass.
func Verify(cfg VerifyConfig) (VerifyResult, error) {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	r, err := zip.OpenReader(cfg.ArchivePath)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("open archive %s: %w", cfg.ArchivePath, err)
	}
	defer r.Close()
	r.RegisterDecompressor(zip.Deflate, func(rd io.Reader) io.ReadCloser {
		return flate.NewReader(rd)
	})

	emit(cfg.Events, event.Event{Type: event.VerifyStarted, Path: cfg.ArchivePath})

	var result VerifyResult
	buf := make([]byte, ioBufferSize)
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rel, err := EntryPath(f.Name)
		if err != nil {
			return result, err
		}

		archiveHash, err := hashEntry(f, buf)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, VerifyError{
				Path:        f.Name,
				SourceHash:  "n/a",
				ArchiveHash: "error",
			})
			cfg.Stats.AddVerifyMismatches(1)
			emit(cfg.Events, event.Event{Type: event.VerifyMismatch, Path: f.Name, Error: err})
			continue
		}

		srcHash, err := hashFile(filepath.Join(cfg.SrcRoot, rel), buf)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, VerifyError{
				Path:        f.Name,
				SourceHash:  "error",
				ArchiveHash: archiveHash,
			})
			cfg.Stats.AddVerifyMismatches(1)
			emit(cfg.Events, event.Event{Type: event.VerifyMismatch, Path: f.Name, Error: err})
			continue
		}

		if srcHash != archiveHash {
			result.Failed++
			result.Errors = append(result.Errors, VerifyError{
				Path:        f.Name,
				SourceHash:  srcHash,
				ArchiveHash: archiveHash,
			})
			cfg.Stats.AddVerifyMismatches(1)
			emit(cfg.Events, event.Event{Type: event.VerifyMismatch, Path: f.Name})
			continue
		}

		result.Verified++
		cfg.Stats.AddFilesVerified(1)
		emit(cfg.Events, event.Event{Type: event.VerifyOK, Path: f.Name})
	}
	return result, nil
}

// hashFile computes the hex-encoded BLAKE3 digest of the file at path.
func hashFile(path string, buf []byte) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	digest, err := hashReader(f, buf)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return digest, nil
}

// hashEntry computes the hex-encoded BLAKE3 digest of an entry's contents.
func hashEntry(f *zip.File, buf []byte) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	digest, err := hashReader(rc, buf)
	if err != nil {
		return "", fmt.Errorf("hash entry %s: %w", f.Name, err)
	}
	return digest, nil
}

func hashReader(r io.Reader, buf []byte) (string, error) {
	h := blake3.New()
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
