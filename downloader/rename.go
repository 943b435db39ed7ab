package downloader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/where"
)

// renameMu serializes renames of this process; the file lock extends that to
// other tapedeck processes writing to the same directory.
var renameMu sync.Mutex

// UniquePath returns dir/name, or dir/"stem (n).ext" with the smallest n >= 1
// that is not taken.
func UniquePath(fs afero.Afero, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for n := 1; ; n++ {
		exists, err := fs.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}

// Move renames src to a free variant of dir/name and returns the final path.
// The existence check and the rename happen under one lock.
func Move(src, dir, name string) (string, error) {
	if filepath.Clean(src) == filepath.Join(dir, name) {
		return src, nil
	}

	renameMu.Lock()
	defer renameMu.Unlock()

	if filesystem.IsOs() {
		lock := flock.New(where.Lock(dir))
		if err := lock.Lock(); err != nil {
			return "", fmt.Errorf("lock %s: %w", dir, err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	dst, err := UniquePath(filesystem.API(), dir, name)
	if err != nil {
		return "", err
	}

	if err = filesystem.API().Rename(src, dst); err != nil {
		return "", fmt.Errorf("rename %s: %w", filepath.Base(src), err)
	}

	return dst, nil
}
