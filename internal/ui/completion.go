package ui

import (
	"fmt"

	"github.com/ziptree/ziptree/internal/stats"
)

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 48,917  size 2.1 GiB → 1.4 GiB  avg 641 MB/s  time 3m 17s
func completionSummary(snap stats.Snapshot, mode Mode) string {
	files := snap.FilesPacked
	moved := snap.BytesRead
	size := fmt.Sprintf("%s → %s", FormatBytes(snap.BytesRead), FormatBytes(snap.BytesWritten))
	if mode == ModeUnpack {
		files = snap.FilesExtracted
		moved = snap.BytesWritten
		size = FormatBytes(snap.BytesWritten)
	}

	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(moved) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	if snap.VerifyMismatches > 0 {
		icon = "✗"
	}

	base := fmt.Sprintf("done %s  files %s  size %s  avg %s  time %s",
		icon,
		FormatCount(files),
		size,
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
	)

	if snap.CyclesSkipped > 0 {
		base += fmt.Sprintf("  skipped %s", FormatCount(snap.CyclesSkipped))
	}
	if snap.FilesVerified > 0 || snap.VerifyMismatches > 0 {
		base += fmt.Sprintf("  verified %s", FormatCount(snap.FilesVerified))
	}
	if snap.VerifyMismatches > 0 {
		base += fmt.Sprintf("  mismatches %d", snap.VerifyMismatches)
	}

	return base
}
