package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks pack and unpack statistics using lock-free atomic counters.
type Collector struct {
	filesPacked      atomic.Int64
	dirEntries       atomic.Int64
	cyclesSkipped    atomic.Int64
	bytesRead        atomic.Int64
	bytesWritten     atomic.Int64
	filesExtracted   atomic.Int64
	dirsCreated      atomic.Int64
	filesVerified    atomic.Int64
	verifyMismatches atomic.Int64
	startTime        time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesPacked      int64
	DirEntries       int64
	CyclesSkipped    int64
	BytesRead        int64
	BytesWritten     int64
	FilesExtracted   int64
	DirsCreated      int64
	FilesVerified    int64
	VerifyMismatches int64
	Elapsed          time.Duration
}

func (c *Collector) AddFilesPacked(n int64)      { c.filesPacked.Add(n) }
func (c *Collector) AddDirEntries(n int64)       { c.dirEntries.Add(n) }
func (c *Collector) AddCyclesSkipped(n int64)    { c.cyclesSkipped.Add(n) }
func (c *Collector) AddBytesRead(n int64)        { c.bytesRead.Add(n) }
func (c *Collector) AddBytesWritten(n int64)     { c.bytesWritten.Add(n) }
func (c *Collector) AddFilesExtracted(n int64)   { c.filesExtracted.Add(n) }
func (c *Collector) AddDirsCreated(n int64)      { c.dirsCreated.Add(n) }
func (c *Collector) AddFilesVerified(n int64)    { c.filesVerified.Add(n) }
func (c *Collector) AddVerifyMismatches(n int64) { c.verifyMismatches.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesPacked:      c.filesPacked.Load(),
		DirEntries:       c.dirEntries.Load(),
		CyclesSkipped:    c.cyclesSkipped.Load(),
		BytesRead:        c.bytesRead.Load(),
		BytesWritten:     c.bytesWritten.Load(),
		FilesExtracted:   c.filesExtracted.Load(),
		DirsCreated:      c.dirsCreated.Load(),
		FilesVerified:    c.filesVerified.Load(),
		VerifyMismatches: c.verifyMismatches.Load(),
		Elapsed:          c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"packed=%d dirs=%d skipped=%d read=%d written=%d extracted=%d created=%d",
		s.FilesPacked, s.DirEntries, s.CyclesSkipped,
		s.BytesRead, s.BytesWritten, s.FilesExtracted, s.DirsCreated,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
