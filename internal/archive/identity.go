package archive

import (
	"fmt"
	"os"
	"syscall"
)

// DevIno uniquely identifies an inode after symlink resolution.
type DevIno struct {
	Dev uint64
	Ino uint64
}

// identityOf stats path, following symlinks, and returns the inode identity
// of whatever the path finally refers to along with its FileInfo. Two paths
// share an identity exactly when they land on the same filesystem object.
func identityOf(path string) (DevIno, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DevIno{}, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	stat := info.Sys().(*syscall.Stat_t)
	return DevIno{Dev: devFromStat(stat), Ino: stat.Ino}, info, nil
}
