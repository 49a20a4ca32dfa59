package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// EntryName returns the archive entry name for path relative to base.
// Names are slash-separated regardless of platform; directory entries carry
// a trailing slash. The base directory itself maps to the empty name, which
// callers never write.
func EntryName(path, base string, isDir bool) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("rel path for %s: %w", path, err)
	}
	if rel == "." {
		return "", nil
	}
	name := filepath.ToSlash(rel)
	if isDir {
		name += "/"
	}
	return name, nil
}

// EntryPath converts an archive entry name back to a platform relative path,
// rejecting names that would land outside the extraction root. The parent
// check is purely lexical: a name like "a/b/../c" is rejected even though it
// would resolve inside the root.
func EntryPath(name string) (string, error) {
	rel := filepath.FromSlash(strings.TrimSuffix(name, "/"))
	if strings.HasPrefix(name, "/") || filepath.IsAbs(rel) {
		return "", &UnsafeEntryNameError{Name: name, Reason: ErrAbsoluteEntryName}
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", &UnsafeEntryNameError{Name: name, Reason: ErrParentEntryName}
		}
	}
	return rel, nil
}
